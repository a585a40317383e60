// Package gateway wraps the third-party tokenized-payment API: client-token
// issuance for the browser-side payment UI and nonce-based sale submission.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Config carries the gateway credentials for one deployment. The client is
// constructed once at process start and injected; there is no lazily
// initialized global handle.
type Config struct {
	Environment string // "sandbox" (default) or "production"
	BaseURL     string // optional override, mainly for tests
	MerchantID  string
	PublicKey   string
	PrivateKey  string
	Timeout     time.Duration
}

func (c Config) Configured() bool {
	return c.MerchantID != "" && c.PublicKey != "" && c.PrivateKey != ""
}

// SaleResult echoes the fields the gateway reports for a settled sale.
type SaleResult struct {
	TransactionID string
	Amount        decimal.Decimal
	Status        string
	Raw           map[string]any
}

type Gateway interface {
	ClientToken(ctx context.Context) (string, error)
	Sale(ctx context.Context, nonce string, amount decimal.Decimal) (*SaleResult, error)
}

// ErrNotConfigured marks a deployment without gateway credentials. Payment
// endpoints fail fast per request; the rest of the service keeps running.
var ErrNotConfigured = errors.New("payment gateway is not configured")

// DeclinedError is returned when the gateway itself reports a failed sale.
// Raw carries the gateway's diagnostic body for support purposes.
type DeclinedError struct {
	Message string
	Raw     map[string]any
}

func (e *DeclinedError) Error() string {
	if e.Message == "" {
		return "transaction declined by gateway"
	}
	return "transaction declined: " + e.Message
}

// Disabled is the gateway wired in when credentials are absent.
type Disabled struct{}

func (Disabled) ClientToken(context.Context) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Sale(context.Context, string, decimal.Decimal) (*SaleResult, error) {
	return nil, ErrNotConfigured
}
