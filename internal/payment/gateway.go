package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"
)

// Gateway payment statuses that count as paid.
const (
	StatusCaptured   = "captured"
	StatusAuthorized = "authorized"
)

// AmountTolerance is the accepted drift between the requested total and the
// amount the gateway reports, in currency units.
const AmountTolerance = 0.01

var (
	ErrPaymentNotCaptured = errors.New("payment is not captured or authorized")
	ErrAmountMismatch     = errors.New("paid amount does not match order total")
	ErrInvalidSignature   = errors.New("payment signature verification failed")
)

// GatewayOrder is the gateway-side order handle returned on creation.
type GatewayOrder struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
}

// PaymentInfo is the gateway's view of a captured payment.
type PaymentInfo struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

// Gateway is the narrow payment-provider contract the order core consumes.
type Gateway interface {
	CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*GatewayOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)
}

// IsPaid reports whether the gateway considers the payment settled.
func (p *PaymentInfo) IsPaid() bool {
	return p.Status == StatusCaptured || p.Status == StatusAuthorized
}

// AmountMatches reports whether the paid amount equals the expected total
// within the floating-point tolerance.
func AmountMatches(paid, expected float64) bool {
	return math.Abs(paid-expected) <= AmountTolerance
}

// HTTPGateway talks to the payment provider's REST API. Amounts cross the
// wire in the provider's smallest currency unit (paise).
type HTTPGateway struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

func NewHTTPGateway(baseURL, keyID, keySecret string) *HTTPGateway {
	return &HTTPGateway{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type gatewayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type gatewayPaymentResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
	Method string `json:"method"`
}

// CreateOrder registers an order with the provider and returns its id.
func (g *HTTPGateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*GatewayOrder, error) {
	payload := map[string]interface{}{
		"amount":   toSubunits(amount),
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway order creation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("gateway order creation returned status %d", resp.StatusCode)
	}

	var decoded gatewayOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode gateway order: %w", err)
	}

	return &GatewayOrder{
		ID:       decoded.ID,
		Amount:   fromSubunits(decoded.Amount),
		Currency: decoded.Currency,
		Receipt:  decoded.Receipt,
	}, nil
}

// FetchPayment retrieves the settlement state of a payment.
func (g *HTTPGateway) FetchPayment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v1/payments/"+paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway payment fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway payment fetch returned status %d", resp.StatusCode)
	}

	var decoded gatewayPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode gateway payment: %w", err)
	}

	return &PaymentInfo{
		ID:     decoded.ID,
		Status: decoded.Status,
		Amount: fromSubunits(decoded.Amount),
		Method: decoded.Method,
	}, nil
}

func toSubunits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromSubunits(subunits int64) float64 {
	return float64(subunits) / 100
}
