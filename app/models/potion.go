package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Ratings are the per-potion quality scores used by the analytics routes.
type Ratings struct {
	Strength float64 `bson:"strength" json:"strength"`
	Flavor   float64 `bson:"flavor"   json:"flavor"`
}

// Potion is a catalog entry. Documents are independent: vendor_id is a
// plain string with no referential integrity enforced at this layer.
type Potion struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name"                json:"name" validate:"required"`
	Effect      string             `bson:"effect"              json:"effect" validate:"required"`
	Ingredients []string           `bson:"ingredients"         json:"ingredients"`
	Price       float64            `bson:"price"               json:"price"`
	VendorID    string             `bson:"vendor_id,omitempty" json:"vendor_id,omitempty"`
	Categories  []string           `bson:"categories"          json:"categories"`
	Ratings     Ratings            `bson:"ratings"             json:"ratings"`
}

// PotionUpdate is the PUT body. Every field is optional: only the fields
// present in the JSON are written, omitted fields keep their stored
// values.
type PotionUpdate struct {
	Name        *string   `json:"name"`
	Effect      *string   `json:"effect"`
	Ingredients *[]string `json:"ingredients"`
	Price       *float64  `json:"price"`
	VendorID    *string   `json:"vendor_id"`
	Categories  *[]string `json:"categories"`
	Ratings     *Ratings  `json:"ratings"`
}
