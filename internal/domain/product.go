package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the catalog read model. The cart/checkout core never writes
// products; it only consumes them as a price/stock oracle.
type Product struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	CategoryID  primitive.ObjectID `bson:"category" json:"categoryId"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Sold        int                `bson:"sold" json:"sold"`
	PhotoURL    string             `bson:"photo_url,omitempty" json:"photoUrl,omitempty"`
	Shipping    bool               `bson:"shipping,omitempty" json:"shipping,omitempty"`
	Rating      float64            `bson:"rating,omitempty" json:"rating,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
