package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	Version   int64              `bson:"version" json:"version"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

type CartItem struct {
	ProductID string    `bson:"product_id" json:"productId"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"addedAt"`
}

// ResolvedCart is the read model returned by get-cart: line items joined
// against the current catalog state for display.
type ResolvedCart struct {
	UserID    string             `json:"userId"`
	Items     []ResolvedCartItem `json:"items"`
	Version   int64              `json:"version"`
	Total     float64            `json:"total"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type ResolvedCartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	PhotoURL  string  `json:"photoUrl"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}
