package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is an account in the users collection. The password is a bcrypt
// hash, never serialized.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"name"          json:"name"`
	Password string             `bson:"password"      json:"-"`
}

// RegisterInput is the registration request body. Sanitized (trimmed and
// HTML-escaped) before the rules run.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required,between=3|30"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the login request body. Only presence is checked; the
// stored credentials are the judge of everything else.
type LoginInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}
