package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jetfood/internal/types"
)

const signatureHeader = "X-Paylink-Signature"

// PaymentMarker advances an order after provider confirmation.
type PaymentMarker interface {
	MarkPaid(ctx context.Context, id types.ID) error
}

// WebhookHandler receives payment notifications from the provider. It always
// answers 200 so the provider does not retry forever; failures are logged and
// reconciled out of band.
type WebhookHandler struct {
	orders PaymentMarker
	secret string
	log    *logrus.Entry
}

func NewWebhookHandler(orders PaymentMarker, secret string) *WebhookHandler {
	return &WebhookHandler{
		orders: orders,
		secret: secret,
		log:    logrus.WithField("component", "webhook"),
	}
}

type webhookPayload struct {
	Type string `json:"type"`
	Data struct {
		OrderID int64 `json:"orderId"`
	} `json:"data"`
}

func (h *WebhookHandler) Paylink(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.WithError(err).Warn("unreadable webhook body")
		c.Status(http.StatusOK)
		return
	}

	if h.secret != "" && !h.validSignature(body, c.GetHeader(signatureHeader)) {
		h.log.Warn("webhook signature mismatch")
		c.Status(http.StatusOK)
		return
	}

	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		h.log.WithError(err).Warn("malformed webhook payload")
		c.Status(http.StatusOK)
		return
	}
	if p.Type != "payment.success" || p.Data.OrderID <= 0 {
		h.log.WithField("type", p.Type).Info("ignoring webhook event")
		c.Status(http.StatusOK)
		return
	}

	if err := h.orders.MarkPaid(c.Request.Context(), types.ID(p.Data.OrderID)); err != nil {
		h.log.WithError(err).WithField("order_id", p.Data.OrderID).Warn("webhook mark paid failed")
	}
	c.Status(http.StatusOK)
}

func (h *WebhookHandler) validSignature(body []byte, got string) bool {
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(got))
}
