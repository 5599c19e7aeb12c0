// Package paylink is the HTTP client for the split-payment provider.
package paylink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"jetfood/internal/config"
	"jetfood/internal/types"
)

// ErrUnavailable covers every provider-side failure: network errors,
// non-2xx responses, and malformed bodies. Callers treat it as retryable.
var ErrUnavailable = errors.New("payment provider unavailable")

type SplitEntry struct {
	AccountID string `json:"accountId"`
	Amount    string `json:"amount"`
}

type PaymentLink struct {
	URL       string
	InvoiceID string
}

type createRequest struct {
	Amount      string       `json:"amount"`
	OrderID     int64        `json:"orderId"`
	Description string       `json:"description"`
	Split       []SplitEntry `json:"split"`
}

type createResponse struct {
	InvoiceURL string `json:"invoice_url"`
}

type Client struct {
	httpc  *http.Client
	apiURL string
	apiKey string
	log    *logrus.Entry
}

func NewClient(cfg config.PaylinkConfig) *Client {
	return &Client{
		httpc:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		log:    logrus.WithField("component", "paylink"),
	}
}

// CreatePayment asks the provider for a payable link carrying the split.
// The invoice id is the last path segment of the returned invoice URL.
func (c *Client) CreatePayment(ctx context.Context, orderID types.ID, amount decimal.Decimal, description string, split []SplitEntry) (*PaymentLink, error) {
	body, err := json.Marshal(createRequest{
		Amount:      amount.String(),
		OrderID:     int64(orderID),
		Description: description,
		Split:       split,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.WithError(err).Warn("payment request failed")
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.WithField("status", resp.StatusCode).Warn("payment provider rejected request")
		return nil, ErrUnavailable
	}

	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.InvoiceURL == "" {
		c.log.WithError(err).Warn("malformed provider response")
		return nil, ErrUnavailable
	}

	return &PaymentLink{
		URL:       out.InvoiceURL,
		InvoiceID: invoiceIDFromURL(out.InvoiceURL),
	}, nil
}

func invoiceIDFromURL(u string) string {
	trimmed := strings.TrimRight(u, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// Description renders the customer-facing payment title for an order code.
func Description(code string) string {
	return fmt.Sprintf("Order %s payment", code)
}
