package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/abhishek6717/navodaya-store/internal/service"
	"github.com/shopspring/decimal"
)

// CheckoutAPI is what the payment handlers need from the checkout
// orchestrator.
type CheckoutAPI interface {
	ClientToken(ctx context.Context) (string, error)
	ProcessPayment(ctx context.Context, req *service.CheckoutRequest) (*service.CheckoutResult, error)
}

type PaymentHandler struct {
	checkout CheckoutAPI
	timeout  time.Duration
}

func NewPaymentHandler(checkout CheckoutAPI, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type submittedProductDTO struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
}

type processPaymentDTO struct {
	PaymentMethodNonce string                `json:"paymentMethodNonce"`
	Amount             decimal.Decimal       `json:"amount"`
	CartVersion        int64                 `json:"cartVersion"`
	Products           []submittedProductDTO `json:"products"`
}

type transactionDTO struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
	Status string `json:"status"`
}

func (h *PaymentHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	token, err := h.checkout.ClientToken(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Client token generated", map[string]any{"clientToken": token})
}

func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req processPaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PaymentMethodNonce == "" {
		respondError(w, http.StatusBadRequest, "Payment nonce required")
		return
	}
	if !req.Amount.IsPositive() {
		respondError(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	items := make([]service.SubmittedItem, 0, len(req.Products))
	for _, p := range req.Products {
		items = append(items, service.SubmittedItem{
			ProductID: p.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  p.Qty,
		})
	}

	result, err := h.checkout.ProcessPayment(ctx, &service.CheckoutRequest{
		UserID:      getUserID(r.Context()),
		Nonce:       req.PaymentMethodNonce,
		Amount:      req.Amount,
		CartVersion: req.CartVersion,
		Items:       items,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, "Payment processed", map[string]any{
		"transaction": transactionDTO{
			ID:     result.Sale.TransactionID,
			Amount: result.Sale.Amount.String(),
			Status: result.Sale.Status,
		},
		"order": result.Order,
	})
}
