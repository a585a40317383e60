package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

const (
	sandboxBaseURL    = "https://api.sandbox.braintreegateway.com"
	productionBaseURL = "https://api.braintreegateway.com"

	defaultTimeout = 15 * time.Second
)

type apiResponse struct {
	status int
	body   []byte
}

// Client talks JSON over HTTP to the gateway. Every call is a single
// attempt with a bounded timeout; a circuit breaker fails fast while the
// upstream is down. Declines are ordinary responses, not breaker failures.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*apiResponse]
}

func NewClient(cfg Config) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if strings.EqualFold(cfg.Environment, "production") {
			baseURL = productionBaseURL
		} else {
			baseURL = sandboxBaseURL
		}
	}

	breaker := gobreaker.NewCircuitBreaker[*apiResponse](gobreaker.Settings{
		Name: "payment-gateway",
	})

	return &Client{
		cfg:     cfg,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
	}, nil
}

// ClientToken requests a short-lived token the browser-side payment SDK
// uses to initialize its UI.
func (c *Client) ClientToken(ctx context.Context) (string, error) {
	resp, err := c.post(ctx, "/client_tokens", map[string]any{})
	if err != nil {
		return "", err
	}

	var parsed struct {
		ClientToken string `json:"clientToken"`
	}
	if err := json.Unmarshal(resp.body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode client token response: %w", err)
	}
	if parsed.ClientToken == "" {
		return "", fmt.Errorf("gateway returned no client token (status %d)", resp.status)
	}

	return parsed.ClientToken, nil
}

// Sale submits a one-time payment-method nonce plus the amount the client
// agreed to pay for settlement. The amount is not recomputed against cart
// contents here; the caller owns that contract.
func (c *Client) Sale(ctx context.Context, nonce string, amount decimal.Decimal) (*SaleResult, error) {
	payload := map[string]any{
		"paymentMethodNonce": nonce,
		"amount":             amount.StringFixed(2),
		"options":            map[string]any{"submitForSettlement": true},
	}

	resp, err := c.post(ctx, "/transactions", payload)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(resp.body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode sale response: %w", err)
	}

	var parsed struct {
		Success     bool   `json:"success"`
		Message     string `json:"message"`
		Transaction struct {
			ID     string `json:"id"`
			Amount string `json:"amount"`
			Status string `json:"status"`
		} `json:"transaction"`
	}
	if err := json.Unmarshal(resp.body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode sale response: %w", err)
	}

	if resp.status < 200 || resp.status >= 300 || !parsed.Success {
		return nil, &DeclinedError{Message: parsed.Message, Raw: raw}
	}

	settled, err := decimal.NewFromString(parsed.Transaction.Amount)
	if err != nil {
		settled = amount
	}

	return &SaleResult{
		TransactionID: parsed.Transaction.ID,
		Amount:        settled,
		Status:        parsed.Transaction.Status,
		Raw:           raw,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*apiResponse, error) {
	return c.breaker.Execute(func() (*apiResponse, error) {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal gateway request: %w", err)
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()

		url := fmt.Sprintf("%s/merchants/%s%s", c.baseURL, c.cfg.MerchantID, path)
		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(buf))
		if err != nil {
			return nil, fmt.Errorf("failed to build gateway request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.SetBasicAuth(c.cfg.PublicKey, c.cfg.PrivateKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("gateway request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, fmt.Errorf("failed to read gateway response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("gateway rejected credentials (status %d)", resp.StatusCode)
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
		}

		return &apiResponse{status: resp.StatusCode, body: body}, nil
	})
}
