package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"jetfood/internal/modules/account"
	"jetfood/internal/modules/catalog"
	"jetfood/internal/modules/courier"
	"jetfood/internal/modules/insights"
	"jetfood/internal/modules/pricing"
	"jetfood/internal/modules/settings"
	"jetfood/internal/types"
)

// AdminHandler serves the back office: system settings, moderation of users,
// restaurants and couriers, promo codes, payouts, and the dashboard.
type AdminHandler struct {
	settings *settings.Service
	account  *account.Service
	catalog  *catalog.Service
	promos   *pricing.Store
	couriers *courier.Service
	insights *insights.Service
}

func NewAdminHandler(
	st *settings.Service,
	acc *account.Service,
	cat *catalog.Service,
	promos *pricing.Store,
	couriers *courier.Service,
	ins *insights.Service,
) *AdminHandler {
	return &AdminHandler{
		settings: st,
		account:  acc,
		catalog:  cat,
		promos:   promos,
		couriers: couriers,
		insights: ins,
	}
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	st, err := h.settings.Get(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, st)
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var st settings.Settings
	if err := c.ShouldBindJSON(&st); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.settings.Update(c.Request.Context(), st); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, st)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.account.ListUsers(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":          u.ID,
			"phone":       u.Phone,
			"first_name":  u.FirstName,
			"role":        u.Role,
			"is_active":   u.IsActive,
			"date_joined": u.DateJoined,
		})
	}
	writeJSON(c, http.StatusOK, out)
}

type activeReq struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *AdminHandler) SetUserActive(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req activeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.account.SetUserActive(c.Request.Context(), id, *req.Active); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"active": *req.Active})
}

func (h *AdminHandler) ListRestaurants(c *gin.Context) {
	rs, err := h.catalog.ListAll(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewRestaurants(rs))
}

type approveReq struct {
	Approved *bool `json:"approved" binding:"required"`
}

func (h *AdminHandler) ApproveRestaurant(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req approveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.catalog.Approve(c.Request.Context(), id, *req.Approved); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"approved": *req.Approved})
}

type categoryReq struct {
	Name string `json:"name" binding:"required"`
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.catalog.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"category_id": id})
}

type promoReq struct {
	Code      string          `json:"code"`
	Type      string          `json:"promo_type" binding:"required"`
	Value     decimal.Decimal `json:"value" binding:"required"`
	IsActive  *bool           `json:"is_active"`
	ValidFrom time.Time       `json:"valid_from" binding:"required"`
	ValidTo   time.Time       `json:"valid_to" binding:"required"`
	MaxUses   int             `json:"max_uses" binding:"required"`
}

type promoView struct {
	ID        types.ID          `json:"id"`
	Code      string            `json:"code"`
	Type      pricing.PromoType `json:"promo_type"`
	Value     decimal.Decimal   `json:"value"`
	IsActive  bool              `json:"is_active"`
	ValidFrom time.Time         `json:"valid_from"`
	ValidTo   time.Time         `json:"valid_to"`
	MaxUses   int               `json:"max_uses"`
	TimesUsed int               `json:"times_used"`
}

func viewPromo(p *pricing.Promo) promoView {
	return promoView{
		ID:        p.ID,
		Code:      p.Code,
		Type:      p.Type,
		Value:     p.Value,
		IsActive:  p.IsActive,
		ValidFrom: p.ValidFrom,
		ValidTo:   p.ValidTo,
		MaxUses:   p.MaxUses,
		TimesUsed: p.TimesUsed,
	}
}

func (h *AdminHandler) ListPromos(c *gin.Context) {
	ps, err := h.promos.ListPromos(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]promoView, 0, len(ps))
	for _, p := range ps {
		out = append(out, viewPromo(p))
	}
	writeJSON(c, http.StatusOK, out)
}

func (h *AdminHandler) CreatePromo(c *gin.Context) {
	var req promoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Code == "" || !validPromoType(req.Type) {
		writeError(c, http.StatusBadRequest, "invalid promo code or type")
		return
	}
	p := &pricing.Promo{
		Code:      req.Code,
		Type:      pricing.PromoType(req.Type),
		Value:     req.Value,
		IsActive:  req.IsActive == nil || *req.IsActive,
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
		MaxUses:   req.MaxUses,
	}
	id, err := h.promos.CreatePromo(c.Request.Context(), p)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	p.ID = id
	writeJSON(c, http.StatusCreated, viewPromo(p))
}

func (h *AdminHandler) UpdatePromo(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req promoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if !validPromoType(req.Type) {
		writeError(c, http.StatusBadRequest, "invalid promo type")
		return
	}
	p := &pricing.Promo{
		ID:        id,
		Type:      pricing.PromoType(req.Type),
		Value:     req.Value,
		IsActive:  req.IsActive == nil || *req.IsActive,
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
		MaxUses:   req.MaxUses,
	}
	if err := h.promos.UpdatePromo(c.Request.Context(), p); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"updated": true})
}

func (h *AdminHandler) DeletePromo(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.promos.DeletePromo(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"deleted": true})
}

func validPromoType(t string) bool {
	pt := pricing.PromoType(t)
	return pt == pricing.PromoPercentage || pt == pricing.PromoFixedAmount
}

func (h *AdminHandler) ListVerifications(c *gin.Context) {
	ps, err := h.couriers.ListOnReview(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]courierProfileView, 0, len(ps))
	for _, p := range ps {
		out = append(out, viewCourierProfile(p))
	}
	writeJSON(c, http.StatusOK, out)
}

func (h *AdminHandler) DecideVerification(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req approveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.couriers.Verify(c.Request.Context(), id, *req.Approved); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"approved": *req.Approved})
}

func (h *AdminHandler) PendingPayouts(c *gin.Context) {
	ps, err := h.couriers.PendingPayouts(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, viewPayouts(ps))
}

func (h *AdminHandler) ProcessPayout(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req approveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.couriers.ProcessPayout(c.Request.Context(), id, *req.Approved); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"approved": *req.Approved})
}

// Dashboard aggregates the period's stats; ?summary=1 adds the AI summary.
// The range defaults to the last 30 days.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid from date")
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid to date")
			return
		}
		to = t.AddDate(0, 0, 1)
	}

	d, err := h.insights.Dashboard(c.Request.Context(), from, to, c.Query("summary") == "1")
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, d)
}
