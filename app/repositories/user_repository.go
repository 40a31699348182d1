package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nberchet/apothecary/app/models"
	"github.com/nberchet/apothecary/pkg/database"
	"github.com/nberchet/apothecary/pkg/metrics"
)

// ErrDuplicateName is returned when the unique index on users.name rejects
// an insert.
var ErrDuplicateName = errors.New("username already taken")

// UserStore is the credential store interface the auth service depends on.
// *UserRepository implements it; tests substitute an in-memory fake.
type UserStore interface {
	FindByName(ctx context.Context, name string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// UserRepository handles database operations on the users collection.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(database.UsersCollection)}
}

// FindByName looks up a user by their unique username.
func (r *UserRepository) FindByName(ctx context.Context, name string) (*models.User, error) {
	defer metrics.ObserveMongo("find", time.Now())

	var user models.User
	err := r.col.FindOne(ctx, bson.D{{Key: "name", Value: name}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("users: find by name: %w", err)
	}
	return &user, nil
}

// Create persists a new user record. A duplicate username surfaces as
// ErrDuplicateName.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveMongo("insert", time.Now())

	res, err := r.col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("users: insert: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}
