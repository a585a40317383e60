package service

import (
	"context"
	"sync"

	"github.com/abhishek6717/navodaya-store/internal/cache"
	"github.com/abhishek6717/navodaya-store/internal/domain"
	"github.com/abhishek6717/navodaya-store/internal/gateway"
	"github.com/abhishek6717/navodaya-store/internal/repository"
	"github.com/shopspring/decimal"
)

// mockCartRepo implements repository.CartRepository for testing
type mockCartRepo struct {
	m          sync.Mutex
	cart       *domain.Cart
	err        error
	clearErr   error
	ClearCalls int
}

func (m *mockCartRepo) GetCart(context.Context, string) (*domain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockCartRepo) AddItem(_ context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		m.cart = &domain.Cart{UserID: userID}
	}
	for i := range m.cart.Items {
		if m.cart.Items[i].ProductID == productID {
			m.cart.Items[i].Quantity += quantity
			m.cart.Version++
			return m.cart, nil
		}
	}
	m.cart.Items = append(m.cart.Items, domain.CartItem{ProductID: productID, Quantity: quantity})
	m.cart.Version++
	return m.cart, nil
}

func (m *mockCartRepo) SetItemQuantity(_ context.Context, _, productID string, quantity int) (*domain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	for i := range m.cart.Items {
		if m.cart.Items[i].ProductID == productID {
			m.cart.Items[i].Quantity = quantity
			m.cart.Version++
			return m.cart, nil
		}
	}
	return nil, repository.ErrItemNotFound
}

func (m *mockCartRepo) RemoveItem(_ context.Context, _, productID string) (*domain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	for i, item := range m.cart.Items {
		if item.ProductID == productID {
			m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
			m.cart.Version++
			return m.cart, nil
		}
	}
	return nil, repository.ErrItemNotFound
}

func (m *mockCartRepo) ClearCart(context.Context, string) (*domain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.ClearCalls++
	if m.clearErr != nil {
		return nil, m.clearErr
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	m.cart.Items = []domain.CartItem{}
	m.cart.Version++
	return m.cart, nil
}

// mockCache implements cache.CartCache for testing
type mockCache struct {
	m       sync.Mutex
	cart    *domain.Cart
	getErr  error
	Deletes int
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return nil
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.Deletes++
	m.cart = nil
	return nil
}

// mockUsers implements repository.UserRepository for testing
type mockUsers struct {
	exists bool
	err    error
}

func (m *mockUsers) Exists(context.Context, string) (bool, error) {
	return m.exists, m.err
}

// mockCatalog implements repository.CatalogRepository for testing
type mockCatalog struct {
	m        sync.Mutex
	products map[string]*domain.Product
	err      error
}

func (m *mockCatalog) GetProduct(_ context.Context, productID string) (*domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	product, ok := m.products[productID]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	return &copied, nil
}

func (m *mockCatalog) setPrice(productID string, price float64) {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[productID].Price = price
}

// mockGateway implements gateway.Gateway for testing
type mockGateway struct {
	token     string
	tokenErr  error
	sale      *gateway.SaleResult
	saleErr   error
	SaleCalls int
	Nonce     string
	Amount    decimal.Decimal
}

func (m *mockGateway) ClientToken(context.Context) (string, error) {
	return m.token, m.tokenErr
}

func (m *mockGateway) Sale(_ context.Context, nonce string, amount decimal.Decimal) (*gateway.SaleResult, error) {
	m.SaleCalls++
	m.Nonce = nonce
	m.Amount = amount
	if m.saleErr != nil {
		return nil, m.saleErr
	}
	return m.sale, nil
}

// mockOrders implements repository.OrderRepository for testing
type mockOrders struct {
	m         sync.Mutex
	created   []*domain.Order
	createErr error
}

func (m *mockOrders) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusDefault
	}
	m.created = append(m.created, order)
	return order, nil
}

func (m *mockOrders) FindByBuyer(_ context.Context, buyerID string) ([]domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	orders := []domain.Order{}
	for _, o := range m.created {
		if o.BuyerID == buyerID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *mockOrders) FindAll(context.Context) ([]domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	orders := []domain.Order{}
	for _, o := range m.created {
		orders = append(orders, *o)
	}
	return orders, nil
}

func (m *mockOrders) UpdateStatus(_ context.Context, _, status string) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if len(m.created) == 0 {
		return nil, repository.ErrOrderNotFound
	}
	m.created[len(m.created)-1].Status = status
	return m.created[len(m.created)-1], nil
}
