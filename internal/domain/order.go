package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatusDefault is the fulfillment status a new order starts in.
// Status is a free-form, admin-controlled string; any value may follow
// any other.
const OrderStatusDefault = "Not processed"

type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BuyerID   string             `bson:"buyer_id" json:"buyerId"`
	Items     []OrderItem        `bson:"items" json:"items"`
	Payment   PaymentRecord      `bson:"payment" json:"payment"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// OrderItem is an immutable snapshot of one purchased line: name and price
// are captured at order-creation time and never follow later catalog edits.
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
}

// PaymentRecord echoes what the gateway reported for the sale. The gateway
// is the source of truth; this is a stored snapshot, not a live reference.
type PaymentRecord struct {
	TransactionID string         `bson:"transaction_id" json:"transactionId"`
	Amount        string         `bson:"amount" json:"amount"`
	Status        string         `bson:"status" json:"status"`
	Raw           map[string]any `bson:"raw,omitempty" json:"raw,omitempty"`
}
