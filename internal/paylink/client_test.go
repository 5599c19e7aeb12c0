package paylink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"jetfood/internal/config"
)

func testClient(url string) *Client {
	return NewClient(config.PaylinkConfig{
		APIURL:         url,
		APIKey:         "test-key",
		TimeoutSeconds: 2,
	})
}

func TestCreatePayment(t *testing.T) {
	var got createRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"invoice_url": "https://pay.example.com/invoice/abc123",
		})
	}))
	defer srv.Close()

	link, err := testClient(srv.URL).CreatePayment(context.Background(), 42,
		decimal.NewFromInt(4900), "Order JET-0A1B2C3D payment",
		[]SplitEntry{
			{AccountID: "rest-1", Amount: "3400"},
			{AccountID: "platform", Amount: "1500"},
		})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if link.URL != "https://pay.example.com/invoice/abc123" {
		t.Errorf("url = %q", link.URL)
	}
	if link.InvoiceID != "abc123" {
		t.Errorf("invoice id = %q", link.InvoiceID)
	}
	if got.OrderID != 42 || got.Amount != "4900" || len(got.Split) != 2 {
		t.Errorf("unexpected request payload: %+v", got)
	}
}

func TestCreatePaymentProviderRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreatePayment(context.Background(), 1, decimal.NewFromInt(100), "x", nil)
	if err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCreatePaymentMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"something":"else"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreatePayment(context.Background(), 1, decimal.NewFromInt(100), "x", nil)
	if err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCreatePaymentUnreachable(t *testing.T) {
	_, err := testClient("http://127.0.0.1:1").CreatePayment(context.Background(), 1, decimal.NewFromInt(100), "x", nil)
	if err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestInvoiceIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://pay.example.com/invoice/abc123":  "abc123",
		"https://pay.example.com/invoice/abc123/": "abc123",
		"abc123":                                  "abc123",
	}
	for in, want := range cases {
		if got := invoiceIDFromURL(in); got != want {
			t.Errorf("invoiceIDFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}
