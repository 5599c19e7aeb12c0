package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"jetfood/internal/modules/order"
	"jetfood/internal/types"
)

type fakeMarker struct {
	mu     sync.Mutex
	marked []types.ID
	err    error
}

func (f *fakeMarker) MarkPaid(_ context.Context, id types.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.marked = append(f.marked, id)
	return nil
}

func newWebhookRouter(marker *fakeMarker, secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewWebhookHandler(marker, secret)
	r.POST("/webhook/paylink", h.Paylink)
	return r
}

func post(t *testing.T, r *gin.Engine, body, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/paylink", bytes.NewBufferString(body))
	if signature != "" {
		req.Header.Set(signatureHeader, signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookMarksOrderPaid(t *testing.T) {
	marker := &fakeMarker{}
	r := newWebhookRouter(marker, "")

	w := post(t, r, `{"type":"payment.success","data":{"orderId":7}}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(marker.marked) != 1 || marker.marked[0] != 7 {
		t.Fatalf("expected order 7 marked, got %v", marker.marked)
	}
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	marker := &fakeMarker{}
	r := newWebhookRouter(marker, "")

	for _, body := range []string{
		`{"type":"payment.failed","data":{"orderId":7}}`,
		`{"type":"payment.success","data":{}}`,
		`not json at all`,
	} {
		w := post(t, r, body, "")
		if w.Code != http.StatusOK {
			t.Errorf("body %q: expected 200, got %d", body, w.Code)
		}
	}
	if len(marker.marked) != 0 {
		t.Fatalf("expected no orders marked, got %v", marker.marked)
	}
}

func TestWebhookAlwaysAnswers200(t *testing.T) {
	// A failing mark must not surface to the provider; the event is logged
	// and reconciled out of band.
	marker := &fakeMarker{err: order.ErrConflict}
	r := newWebhookRouter(marker, "")

	w := post(t, r, `{"type":"payment.success","data":{"orderId":7}}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestWebhookSignature(t *testing.T) {
	const secret = "whsec-test"
	body := `{"type":"payment.success","data":{"orderId":9}}`

	marker := &fakeMarker{}
	r := newWebhookRouter(marker, secret)

	// Missing or wrong signature: accepted on the wire, but not processed.
	post(t, r, body, "")
	post(t, r, body, "deadbeef")
	if len(marker.marked) != 0 {
		t.Fatalf("unsigned events were processed: %v", marker.marked)
	}

	w := post(t, r, body, sign(secret, body))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(marker.marked) != 1 || marker.marked[0] != 9 {
		t.Fatalf("expected order 9 marked, got %v", marker.marked)
	}
}
