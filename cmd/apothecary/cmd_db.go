package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/nberchet/apothecary/config"
	"github.com/nberchet/apothecary/database/seeders"
	"github.com/nberchet/apothecary/pkg/database"
	"github.com/nberchet/apothecary/pkg/logger"
)

// apothecary db:seed — insert demo data.
var seedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Seed the database with a demo user and sample potions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *database.Mongo) error {
			return seeders.Run(ctx, db.DB)
		})
	},
}

// apothecary db:index — ensure the indexes exist.
var indexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create the unique username index and catalog query indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *database.Mongo) error {
			if err := db.EnsureIndexes(ctx); err != nil {
				return err
			}
			logger.Info("indexes ensured")
			return nil
		})
	},
}

func withDB(fn func(context.Context, *database.Mongo) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db)
}
