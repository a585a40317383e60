package repository

import (
	"context"
	"errors"

	"github.com/abhishek6717/navodaya-store/internal/domain"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

// CartRepository defines the interface for cart data operations.
// Consumers define this interface, not the MongoDB implementation.
//
// Every mutation is atomic at the store and bumps the cart version, so
// concurrent mutations to the same cart never lose updates and checkout
// can detect that its snapshot went stale.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	SetItemQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) (*domain.Cart, error)
}

// OrderRepository persists completed purchases. Orders are append-only:
// after creation only the fulfillment status may change.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*domain.Order, error)
}

// CatalogRepository is the read-only product oracle consulted for display
// resolution and order price snapshots.
type CatalogRepository interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

// UserRepository exposes the single lookup the cart core needs from the
// (out-of-scope) user store.
type UserRepository interface {
	Exists(ctx context.Context, userID string) (bool, error)
}
