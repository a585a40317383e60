package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/abhishek6717/navodaya-store/internal/gateway"
	"github.com/abhishek6717/navodaya-store/internal/repository"
	"github.com/abhishek6717/navodaya-store/internal/service"
)

// All endpoints answer with the same envelope: a boolean status flag, a
// message, and the resource under one canonical named key.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondSuccess(w http.ResponseWriter, status int, message string, resources map[string]any) {
	payload := map[string]any{
		"status":  true,
		"message": message,
	}
	for key, resource := range resources {
		payload[key] = resource
	}
	respondJSON(w, status, payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{
		"status":  false,
		"message": message,
	})
}

// handleServiceError converts service/repository/gateway failures into the
// uniform JSON error shape. Nothing propagates past the handler boundary.
func handleServiceError(w http.ResponseWriter, err error) {
	var declined *gateway.DeclinedError
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, repository.ErrCartNotFound):
		respondError(w, http.StatusNotFound, "Cart not found")
	case errors.Is(err, repository.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "Product not found in cart")
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, service.ErrCartChanged):
		respondError(w, http.StatusConflict, "Cart changed since it was read, please try again")
	case errors.Is(err, gateway.ErrNotConfigured):
		respondError(w, http.StatusInternalServerError, "Payment gateway not configured on server")
	case errors.As(err, &declined):
		// Echo the gateway's raw diagnostic for support purposes.
		respondJSON(w, http.StatusPaymentRequired, map[string]any{
			"status":  false,
			"message": "Transaction failed",
			"error":   declined.Raw,
		})
	default:
		log.Printf("request failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
