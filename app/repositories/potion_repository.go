// Package repositories holds the MongoDB data access layer. All query and
// pipeline construction lives here, built from typed values only — raw
// request strings never reach a filter or a pipeline stage.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nberchet/apothecary/app/models"
	"github.com/nberchet/apothecary/pkg/database"
	"github.com/nberchet/apothecary/pkg/metrics"
)

// PotionRepository handles catalog operations on the potions collection.
type PotionRepository struct {
	col *mongo.Collection
}

func NewPotionRepository(db *mongo.Database) *PotionRepository {
	return &PotionRepository{col: db.Collection(database.PotionsCollection)}
}

// All returns every potion in the catalog.
func (r *PotionRepository) All(ctx context.Context) ([]models.Potion, error) {
	defer metrics.ObserveMongo("find", time.Now())

	cur, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("potions: find all: %w", err)
	}

	potions := []models.Potion{}
	if err := cur.All(ctx, &potions); err != nil {
		return nil, fmt.Errorf("potions: decode: %w", err)
	}
	return potions, nil
}

// Names returns the name of every potion.
func (r *PotionRepository) Names(ctx context.Context) ([]string, error) {
	defer metrics.ObserveMongo("find", time.Now())

	opts := options.Find().SetProjection(bson.D{{Key: "name", Value: 1}})
	cur, err := r.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("potions: find names: %w", err)
	}

	var docs []struct {
		Name string `bson:"name"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("potions: decode names: %w", err)
	}

	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Name)
	}
	return names, nil
}

// ByID fetches one potion. An unparseable id is reported as ErrNotFound:
// a malformed ObjectID cannot address any document.
func (r *PotionRepository) ByID(ctx context.Context, id string) (*models.Potion, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	defer metrics.ObserveMongo("find", time.Now())

	var potion models.Potion
	err = r.col.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&potion)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("potions: find by id: %w", err)
	}
	return &potion, nil
}

// PriceRangeFilter matches potions with min <= price <= max, inclusive
// on both bounds.
func PriceRangeFilter(min, max float64) bson.D {
	return bson.D{{Key: "price", Value: bson.D{
		{Key: "$gte", Value: min},
		{Key: "$lte", Value: max},
	}}}
}

// priceAscending sorts cheapest first.
var priceAscending = bson.D{{Key: "price", Value: 1}}

// PriceRange returns potions with min <= price <= max, cheapest first.
func (r *PotionRepository) PriceRange(ctx context.Context, min, max float64) ([]models.Potion, error) {
	defer metrics.ObserveMongo("find", time.Now())

	opts := options.Find().SetSort(priceAscending)
	cur, err := r.col.Find(ctx, PriceRangeFilter(min, max), opts)
	if err != nil {
		return nil, fmt.Errorf("potions: price range: %w", err)
	}

	potions := []models.Potion{}
	if err := cur.All(ctx, &potions); err != nil {
		return nil, fmt.Errorf("potions: decode: %w", err)
	}
	return potions, nil
}

// ByVendor returns a vendor's potions sorted by name. An empty result is
// ErrNotFound: the catalog has no vendor collection, so "unknown vendor"
// and "vendor with zero potions" are indistinguishable at this layer.
func (r *PotionRepository) ByVendor(ctx context.Context, vendorID string) ([]models.Potion, error) {
	defer metrics.ObserveMongo("find", time.Now())

	opts := options.Find().
		SetProjection(bson.D{{Key: "__v", Value: 0}}).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cur, err := r.col.Find(ctx, bson.D{{Key: "vendor_id", Value: vendorID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("potions: by vendor: %w", err)
	}

	var potions []models.Potion
	if err := cur.All(ctx, &potions); err != nil {
		return nil, fmt.Errorf("potions: decode: %w", err)
	}
	if len(potions) == 0 {
		return nil, ErrNotFound
	}
	return potions, nil
}

// Create inserts a new potion and returns it with its assigned id.
func (r *PotionRepository) Create(ctx context.Context, p *models.Potion) (*models.Potion, error) {
	defer metrics.ObserveMongo("insert", time.Now())

	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("potions: insert: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return p, nil
}

// UpdateDocument builds the $set document from the fields present in the
// body. Returns nil when the body carries none.
func UpdateDocument(in *models.PotionUpdate) bson.D {
	set := bson.D{}
	if in.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *in.Name})
	}
	if in.Effect != nil {
		set = append(set, bson.E{Key: "effect", Value: *in.Effect})
	}
	if in.Ingredients != nil {
		set = append(set, bson.E{Key: "ingredients", Value: *in.Ingredients})
	}
	if in.Price != nil {
		set = append(set, bson.E{Key: "price", Value: *in.Price})
	}
	if in.VendorID != nil {
		set = append(set, bson.E{Key: "vendor_id", Value: *in.VendorID})
	}
	if in.Categories != nil {
		set = append(set, bson.E{Key: "categories", Value: *in.Categories})
	}
	if in.Ratings != nil {
		set = append(set, bson.E{Key: "ratings", Value: *in.Ratings})
	}
	if len(set) == 0 {
		return nil
	}
	return bson.D{{Key: "$set", Value: set}}
}

// Update writes the fields present in the body and returns the updated
// document. Omitted fields keep their stored values; an empty body is a
// plain read.
func (r *PotionRepository) Update(ctx context.Context, id string, in *models.PotionUpdate) (*models.Potion, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	update := UpdateDocument(in)
	if update == nil {
		return r.ByID(ctx, id)
	}

	defer metrics.ObserveMongo("update", time.Now())

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Potion
	err = r.col.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("potions: update: %w", err)
	}
	return &updated, nil
}

// Delete removes a potion by id.
func (r *PotionRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	defer metrics.ObserveMongo("delete", time.Now())

	err = r.col.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("potions: delete: %w", err)
	}
	return nil
}
