package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"smartparking/internal/service"
)

// HTTPDoer defines the http.Client interface subset used by clients.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// PaymentProviderClient creates orders with the external payment gateway
// over its HTTP API. The gateway owns checkout and signature verification;
// we only hold the order reference it issues.
type PaymentProviderClient struct {
	baseURL   string
	keyID     string
	keySecret string
	client    HTTPDoer
	logger    *zap.Logger
}

// NewPaymentProviderClient builds the client.
func NewPaymentProviderClient(baseURL, keyID, keySecret string, logger *zap.Logger) *PaymentProviderClient {
	return &PaymentProviderClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger,
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrder asks the provider for a new order in minor currency units.
func (c *PaymentProviderClient) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (service.ProviderOrder, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return service.ProviderOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return service.ProviderOrder{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return service.ProviderOrder{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("payment provider rejected order", zap.Int("status", resp.StatusCode))
		return service.ProviderOrder{}, fmt.Errorf("payment provider: unexpected status %d", resp.StatusCode)
	}

	var order createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return service.ProviderOrder{}, err
	}
	return service.ProviderOrder{
		Ref:         order.ID,
		AmountMinor: order.Amount,
		Currency:    order.Currency,
	}, nil
}
