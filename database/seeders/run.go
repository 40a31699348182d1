// Package seeders fills an empty database with demo data for local work.
package seeders

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nberchet/apothecary/app/models"
	"github.com/nberchet/apothecary/app/repositories"
	"github.com/nberchet/apothecary/pkg/auth"
	"github.com/nberchet/apothecary/pkg/database"
	"github.com/nberchet/apothecary/pkg/logger"
)

// Run inserts a demo user (name "merlin", password "abracadabra") and a
// small potion catalog. Existing documents are left alone.
func Run(ctx context.Context, db *mongo.Database) error {
	users := repositories.NewUserRepository(db)

	hash, err := auth.HashPassword("abracadabra")
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}

	err = users.Create(ctx, &models.User{Name: "merlin", Password: hash})
	switch {
	case err == nil:
		logger.Info("seeded demo user", "name", "merlin")
	case errors.Is(err, repositories.ErrDuplicateName):
		logger.Info("demo user already present")
	default:
		return err
	}

	count, err := db.Collection(database.PotionsCollection).CountDocuments(ctx, map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("seed: count potions: %w", err)
	}
	if count > 0 {
		logger.Info("potions already present, skipping", "count", count)
		return nil
	}

	potionRepo := repositories.NewPotionRepository(db)
	for _, p := range samplePotions() {
		potion := p
		if _, err := potionRepo.Create(ctx, &potion); err != nil {
			return err
		}
	}
	logger.Info("seeded potions", "count", len(samplePotions()))
	return nil
}

func samplePotions() []models.Potion {
	return []models.Potion{
		{
			Name:        "Potion de vie",
			Effect:      "Restaure la santé",
			Ingredients: []string{"Herbe médicinale", "Eau pure"},
			Price:       100,
			VendorID:    "vendor-1",
			Categories:  []string{"soin"},
			Ratings:     models.Ratings{Strength: 8, Flavor: 4},
		},
		{
			Name:        "Élixir de force",
			Effect:      "Double la force pendant une heure",
			Ingredients: []string{"Racine de mandragore", "Sang de dragon"},
			Price:       250,
			VendorID:    "vendor-1",
			Categories:  []string{"combat", "soin"},
			Ratings:     models.Ratings{Strength: 10, Flavor: 2},
		},
		{
			Name:        "Brume d'invisibilité",
			Effect:      "Rend invisible quelques minutes",
			Ingredients: []string{"Fleur de lune", "Poussière d'étoile"},
			Price:       420,
			VendorID:    "vendor-2",
			Categories:  []string{"furtivité"},
			Ratings:     models.Ratings{Strength: 7, Flavor: 0},
		},
		{
			Name:        "Tisane du sommeil",
			Effect:      "Endort profondément",
			Ingredients: []string{"Camomille", "Pavot"},
			Price:       35,
			VendorID:    "vendor-2",
			Categories:  []string{"soin", "furtivité"},
			Ratings:     models.Ratings{Strength: 3, Flavor: 9},
		},
	}
}
