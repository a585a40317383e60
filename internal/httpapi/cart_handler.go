package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/abhishek6717/navodaya-store/internal/domain"
	"github.com/go-chi/chi/v5"
)

// CartAPI is what the cart handlers need from the cart service.
// Consumers define this interface, not the implementation.
type CartAPI interface {
	GetCart(ctx context.Context, userID string) (*domain.ResolvedCart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) (*domain.Cart, error)
}

type CartHandler struct {
	cart    CartAPI
	timeout time.Duration
}

func NewCartHandler(cart CartAPI, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cart,
		timeout: timeout,
	}
}

type addToCartDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemQtyDTO struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req addToCartDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Product ID and quantity are required")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "Product ID and quantity are required")
		return
	}
	if req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.cart.AddItem(ctx, getUserID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Product added to cart", map[string]any{"cart": cart})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.cart.GetCart(ctx, getUserID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Cart fetched", map[string]any{"cart": cart})
}

func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "Product ID is required")
		return
	}

	cart, err := h.cart.RemoveItem(ctx, getUserID(r.Context()), productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Product removed from cart", map[string]any{"cart": cart})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.cart.ClearCart(ctx, getUserID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Cart cleared", map[string]any{"cart": cart})
}

func (h *CartHandler) UpdateCartItemQty(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req updateCartItemQtyDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Product ID and quantity are required")
		return
	}
	if req.ProductID == "" || req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "Product ID and quantity are required")
		return
	}

	// The quantity is written verbatim; no clamping here.
	cart, err := h.cart.SetQuantity(ctx, getUserID(r.Context()), req.ProductID, *req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Cart item quantity updated", map[string]any{"cart": cart})
}
