package service

import (
	"context"
	"testing"
	"time"

	"github.com/abhishek6717/navodaya-store/internal/domain"
	"github.com/abhishek6717/navodaya-store/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	productA = "64f1a2b3c4d5e6f708192a3b"
	productB = "64f1a2b3c4d5e6f708192a3c"
)

func newCartFixture() (*CartService, *mockCartRepo, *mockCache, *mockCatalog, *mockUsers) {
	repo := &mockCartRepo{}
	cartCache := &mockCache{}
	catalog := &mockCatalog{products: map[string]*domain.Product{
		productA: {Name: "Steel Bottle", Price: 299, PhotoURL: "/img/bottle.jpg"},
		productB: {Name: "Lunch Box", Price: 150},
	}}
	users := &mockUsers{exists: true}
	return NewCartService(repo, users, catalog, cartCache), repo, cartCache, catalog, users
}

func TestAddItem_UnknownUser(t *testing.T) {
	svc, repo, _, _, users := newCartFixture()
	users.exists = false

	cart, err := svc.AddItem(context.Background(), "ghost", productA, 1)

	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Nil(t, cart)
	assert.Nil(t, repo.cart) // nothing persisted
}

func TestAddItem_InvalidatesCache(t *testing.T) {
	svc, _, cartCache, _, _ := newCartFixture()
	cartCache.cart = &domain.Cart{UserID: "user123"}

	_, err := svc.AddItem(context.Background(), "user123", productA, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, cartCache.Deletes)
}

func TestGetCart_EmptyShapeWhenAbsent(t *testing.T) {
	svc, _, _, _, _ := newCartFixture()

	cart, err := svc.GetCart(context.Background(), "user123")
	require.NoError(t, err)

	// No cart is not an error: an empty cart shape comes back.
	assert.Equal(t, "user123", cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}

func TestGetCart_ResolvesCatalogSnapshots(t *testing.T) {
	svc, repo, _, _, _ := newCartFixture()
	repo.cart = &domain.Cart{
		UserID: "user123",
		Items: []domain.CartItem{
			{ProductID: productA, Quantity: 2},
			{ProductID: productB, Quantity: 1},
		},
		Version:   3,
		UpdatedAt: time.Now(),
	}

	cart, err := svc.GetCart(context.Background(), "user123")
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, "Steel Bottle", cart.Items[0].Name)
	assert.Equal(t, 299.0, cart.Items[0].Price)
	assert.Equal(t, "/img/bottle.jpg", cart.Items[0].PhotoURL)
	assert.Equal(t, 598.0, cart.Items[0].Subtotal)
	assert.Equal(t, 748.0, cart.Total)
	assert.Equal(t, int64(3), cart.Version)
}

func TestGetCart_DeletedProductKeepsLine(t *testing.T) {
	svc, repo, _, catalog, _ := newCartFixture()
	delete(catalog.products, productB)
	repo.cart = &domain.Cart{
		UserID: "user123",
		Items:  []domain.CartItem{{ProductID: productB, Quantity: 4}},
	}

	cart, err := svc.GetCart(context.Background(), "user123")
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, productB, cart.Items[0].ProductID)
	assert.Empty(t, cart.Items[0].Name)
	assert.Zero(t, cart.Items[0].Price)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestGetCart_ServedFromCache(t *testing.T) {
	svc, repo, cartCache, _, _ := newCartFixture()
	cartCache.cart = &domain.Cart{
		UserID: "user123",
		Items:  []domain.CartItem{{ProductID: productA, Quantity: 1}},
	}
	repo.err = assert.AnError // repo must not be hit

	cart, err := svc.GetCart(context.Background(), "user123")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestSetQuantity_PassesValueVerbatim(t *testing.T) {
	svc, repo, _, _, _ := newCartFixture()
	repo.cart = &domain.Cart{
		UserID: "user123",
		Items:  []domain.CartItem{{ProductID: productA, Quantity: 2}},
	}

	cart, err := svc.SetQuantity(context.Background(), "user123", productA, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, cart.Items[0].Quantity)
}

func TestRemoveItem_MissingLine(t *testing.T) {
	svc, repo, _, _, _ := newCartFixture()
	repo.cart = &domain.Cart{
		UserID: "user123",
		Items:  []domain.CartItem{{ProductID: productA, Quantity: 2}},
	}

	_, err := svc.RemoveItem(context.Background(), "user123", productB)
	assert.ErrorIs(t, err, repository.ErrItemNotFound)
}

func TestClearCart_InvalidatesCache(t *testing.T) {
	svc, repo, cartCache, _, _ := newCartFixture()
	repo.cart = &domain.Cart{
		UserID: "user123",
		Items:  []domain.CartItem{{ProductID: productA, Quantity: 2}},
	}

	cart, err := svc.ClearCart(context.Background(), "user123")
	require.NoError(t, err)

	assert.Empty(t, cart.Items)
	assert.Equal(t, 1, cartCache.Deletes)
}
