package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/abhishek6717/navodaya-store/internal/cache"
	"github.com/abhishek6717/navodaya-store/internal/domain"
	"github.com/abhishek6717/navodaya-store/internal/gateway"
	"github.com/abhishek6717/navodaya-store/internal/repository"
	"github.com/shopspring/decimal"
)

// ErrCartChanged means the cart moved between the version the client read
// and checkout submission. The client should refetch the cart and retry.
var ErrCartChanged = errors.New("cart changed since it was read, re-fetch and try again")

// SubmittedItem is one line of the cart contents as submitted by the
// client at checkout.
type SubmittedItem struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
}

type CheckoutRequest struct {
	UserID      string
	Nonce       string
	Amount      decimal.Decimal
	CartVersion int64
	Items       []SubmittedItem
}

type CheckoutResult struct {
	Sale  *gateway.SaleResult
	Order *domain.Order
}

// CheckoutService coordinates one checkout attempt: conflict check against
// the cart snapshot, sale submission, order creation, cart clearing. An
// order is created if and only if the gateway reports a successful sale.
type CheckoutService struct {
	gw      gateway.Gateway
	orders  repository.OrderRepository
	catalog repository.CatalogRepository
	carts   repository.CartRepository
	cache   cache.CartCache
}

func NewCheckoutService(gw gateway.Gateway, orders repository.OrderRepository, catalog repository.CatalogRepository, carts repository.CartRepository, cartCache cache.CartCache) *CheckoutService {
	return &CheckoutService{
		gw:      gw,
		orders:  orders,
		catalog: catalog,
		carts:   carts,
		cache:   cartCache,
	}
}

// ClientToken obtains a short-lived gateway token for the client's payment UI.
func (s *CheckoutService) ClientToken(ctx context.Context) (string, error) {
	return s.gw.ClientToken(ctx)
}

// ProcessPayment submits the sale and, on gateway-reported success, persists
// the order snapshot and empties the cart. On any failure before that, no
// order is created and the cart is left untouched so the user may retry.
func (s *CheckoutService) ProcessPayment(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, error) {
	cart, err := s.carts.GetCart(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, ErrCartChanged
		}
		return nil, err
	}
	if cart.Version != req.CartVersion {
		return nil, ErrCartChanged
	}

	sale, err := s.gw.Sale(ctx, req.Nonce, req.Amount)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		BuyerID: req.UserID,
		Items:   s.snapshotItems(ctx, req.Items),
		Payment: domain.PaymentRecord{
			TransactionID: sale.TransactionID,
			Amount:        sale.Amount.String(),
			Status:        sale.Status,
			Raw:           sale.Raw,
		},
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		// The charge is captured and there is no compensating refund. Known
		// gap: money taken, no order recorded.
		return nil, fmt.Errorf("sale %s succeeded but order creation failed: %w", sale.TransactionID, err)
	}

	// Clear only after the order is durably created. A failure here leaves
	// a stale cart behind but the purchase itself is complete, so it must
	// not fail the checkout.
	if _, err := s.carts.ClearCart(ctx, req.UserID); err != nil {
		log.Printf("failed to clear cart for user %s after order %s: %v", req.UserID, created.ID.Hex(), err)
	}
	s.invalidateCache(req.UserID)

	return &CheckoutResult{Sale: sale, Order: created}, nil
}

// snapshotItems resolves current catalog name/price for each submitted line.
// When the lookup fails the client-supplied name/price are recorded so a
// deleted product does not block order creation. That leaves the price under
// client control in the failure case; deliberate leniency, kept as-is.
func (s *CheckoutService) snapshotItems(ctx context.Context, items []SubmittedItem) []domain.OrderItem {
	snapshot := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		name := item.Name
		price := item.Price

		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err == nil {
			name = product.Name
			price = product.Price
		} else if !errors.Is(err, repository.ErrProductNotFound) {
			log.Printf("catalog lookup for product %s failed: %v", item.ProductID, err)
		}

		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		snapshot = append(snapshot, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      name,
			Price:     price,
			Quantity:  quantity,
		})
	}
	return snapshot
}

func (s *CheckoutService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
