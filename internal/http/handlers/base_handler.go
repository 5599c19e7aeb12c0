// Package handlers contains the gin handlers, grouped by acting role.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jetfood/internal/modules/account"
	"jetfood/internal/modules/catalog"
	"jetfood/internal/modules/courier"
	"jetfood/internal/modules/order"
	"jetfood/internal/modules/pricing"
	"jetfood/internal/paylink"
	"jetfood/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps module sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500 and gets logged with its cause.
func writeDomainError(c *gin.Context, err error) {
	switch err {
	case order.ErrBadRequest, account.ErrBadRequest, catalog.ErrBadRequest,
		courier.ErrBadRequest, order.ErrOutOfZone,
		pricing.ErrEmptyCart, pricing.ErrDishUnavailable:
		writeError(c, http.StatusBadRequest, err.Error())
	case order.ErrNotFound, account.ErrNotFound, catalog.ErrNotFound,
		courier.ErrNotFound, pricing.ErrPromoNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case courier.ErrNotVerified, courier.ErrOffline:
		writeError(c, http.StatusForbidden, err.Error())
	case order.ErrInvalidState, order.ErrConflict, order.ErrPromoExhausted,
		order.ErrRestaurantUnavailable, order.ErrNoPaymentAccount,
		catalog.ErrRestaurantExists,
		courier.ErrAlreadyProcessed, courier.ErrCannotSubmit,
		courier.ErrNotOnReview, courier.ErrInsufficientBalance, courier.ErrNoCard:
		writeError(c, http.StatusConflict, err.Error())
	case paylink.ErrUnavailable:
		writeError(c, http.StatusBadGateway, "payment provider unavailable")
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("unhandled error")
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (types.ID, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		writeError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return types.ID(v), true
}
