package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"jetfood/internal/http/middleware"
	"jetfood/internal/modules/courier"
	"jetfood/internal/modules/order"
)

// CourierHandler serves the courier app: profile, verification, the order
// marketplace, and payouts.
type CourierHandler struct {
	couriers *courier.Service
	orders   *order.Service
}

func NewCourierHandler(couriers *courier.Service, orders *order.Service) *CourierHandler {
	return &CourierHandler{couriers: couriers, orders: orders}
}

func (h *CourierHandler) Profile(c *gin.Context) {
	p, err := h.couriers.Profile(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewCourierProfile(p))
}

type setOnlineReq struct {
	Online *bool `json:"online" binding:"required"`
}

func (h *CourierHandler) SetOnline(c *gin.Context) {
	var req setOnlineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.couriers.SetOnline(c.Request.Context(), middleware.CallerID(c), *req.Online)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewCourierProfile(p))
}

type setCardReq struct {
	CardNumber string `json:"card_number" binding:"required"`
}

func (h *CourierHandler) SetCard(c *gin.Context) {
	var req setCardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.couriers.SetCard(c.Request.Context(), middleware.CallerID(c), req.CardNumber); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"saved": true})
}

func (h *CourierHandler) SubmitVerification(c *gin.Context) {
	p, err := h.couriers.SubmitVerification(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewCourierProfile(p))
}

func (h *CourierHandler) AvailableOrders(c *gin.Context) {
	orders, err := h.orders.AvailableForCourier(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewOrders(orders))
}

func (h *CourierHandler) TakeOrder(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.orders.TakeOrder(c.Request.Context(), orderID, middleware.CallerID(c)); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": order.StatusOnTheWay})
}

func (h *CourierHandler) MarkDelivered(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.orders.Deliver(c.Request.Context(), orderID, middleware.CallerID(c)); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": order.StatusDelivered})
}

func (h *CourierHandler) CancelOrder(c *gin.Context) {
	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.orders.CancelByCourier(c.Request.Context(), orderID, middleware.CallerID(c)); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": order.StatusCancelled})
}

// MyOrders returns the courier's deliveries, optionally filtered by ?status=.
func (h *CourierHandler) MyOrders(c *gin.Context) {
	var statuses []order.Status
	if st := c.Query("status"); st != "" {
		statuses = append(statuses, order.Status(st))
	}
	orders, err := h.orders.CourierOrders(c.Request.Context(), middleware.CallerID(c), statuses...)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewOrders(orders))
}

type payoutReq struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func (h *CourierHandler) RequestPayout(c *gin.Context) {
	var req payoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.couriers.RequestPayout(c.Request.Context(), middleware.CallerID(c), req.Amount)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, viewPayout(p))
}

func (h *CourierHandler) MyPayouts(c *gin.Context) {
	ps, err := h.couriers.MyPayouts(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewPayouts(ps))
}
