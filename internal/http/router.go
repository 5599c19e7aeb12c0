// Package http assembles the gin engine from the role-scoped handlers.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jetfood/internal/http/handlers"
	"jetfood/internal/http/middleware"
	"jetfood/internal/modules/account"
	"jetfood/internal/modules/catalog"
	"jetfood/internal/modules/courier"
	"jetfood/internal/modules/insights"
	"jetfood/internal/modules/order"
	"jetfood/internal/modules/pricing"
	"jetfood/internal/modules/settings"
)

type RouterDeps struct {
	Settings *settings.Service
	Account  *account.Service
	Catalog  *catalog.Service
	Promos   *pricing.Store
	Orders   *order.Service
	Couriers *courier.Service
	Insights *insights.Service

	WebhookSecret string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	pub := handlers.NewPublicHandler(deps.Catalog)
	r.GET("/api/restaurants", pub.ListRestaurants)
	r.GET("/api/restaurants/:id", pub.GetRestaurant)
	r.GET("/api/restaurants/:id/menu", pub.Menu)
	r.GET("/api/categories", pub.ListCategories)

	webhook := handlers.NewWebhookHandler(deps.Orders, deps.WebhookSecret)
	r.POST("/webhook/paylink", webhook.Paylink)

	authed := r.Group("/api", middleware.Identity())

	client := authed.Group("/client", middleware.RequireRole(string(account.RoleClient)))
	ch := handlers.NewClientHandler(deps.Orders, deps.Account, deps.Catalog)
	client.POST("/orders", ch.CreateOrder)
	client.GET("/orders", ch.MyOrders)
	client.GET("/orders/:id", ch.GetOrder)
	client.POST("/orders/:id/review", ch.CreateReview)
	client.POST("/addresses", ch.CreateAddress)
	client.GET("/addresses", ch.MyAddresses)
	client.DELETE("/addresses/:id", ch.DeleteAddress)

	rest := authed.Group("/restaurant", middleware.RequireRole(string(account.RoleRestaurant)))
	rh := handlers.NewRestaurantHandler(deps.Catalog, deps.Orders)
	rest.POST("", rh.Create)
	rest.GET("/me", rh.Me)
	rest.PUT("/me", rh.UpdateProfile)
	rest.PUT("/me/active", rh.SetActive)
	rest.GET("/dishes", rh.MyMenu)
	rest.POST("/dishes", rh.CreateDish)
	rest.PUT("/dishes/:id", rh.UpdateDish)
	rest.DELETE("/dishes/:id", rh.DeleteDish)
	rest.GET("/orders", rh.Orders)
	rest.POST("/orders/:id/accept", rh.AcceptOrder)
	rest.POST("/orders/:id/ready", rh.MarkReady)
	rest.POST("/orders/:id/cancel", rh.CancelOrder)
	rest.POST("/orders/:id/start-delivery", rh.StartDelivery)
	rest.POST("/orders/:id/complete-delivery", rh.CompleteDelivery)

	cour := authed.Group("/courier", middleware.RequireRole(string(account.RoleCourier)))
	kh := handlers.NewCourierHandler(deps.Couriers, deps.Orders)
	cour.GET("/profile", kh.Profile)
	cour.PUT("/online", kh.SetOnline)
	cour.PUT("/card", kh.SetCard)
	cour.POST("/verification", kh.SubmitVerification)
	cour.GET("/orders/available", kh.AvailableOrders)
	cour.POST("/orders/:id/take", kh.TakeOrder)
	cour.POST("/orders/:id/delivered", kh.MarkDelivered)
	cour.POST("/orders/:id/cancel", kh.CancelOrder)
	cour.GET("/orders", kh.MyOrders)
	cour.POST("/payouts", kh.RequestPayout)
	cour.GET("/payouts", kh.MyPayouts)

	admin := authed.Group("/admin", middleware.RequireRole(string(account.RoleAdmin)))
	ah := handlers.NewAdminHandler(deps.Settings, deps.Account, deps.Catalog, deps.Promos, deps.Couriers, deps.Insights)
	admin.GET("/settings", ah.GetSettings)
	admin.PUT("/settings", ah.UpdateSettings)
	admin.GET("/users", ah.ListUsers)
	admin.PUT("/users/:id/active", ah.SetUserActive)
	admin.GET("/restaurants", ah.ListRestaurants)
	admin.PUT("/restaurants/:id/approve", ah.ApproveRestaurant)
	admin.POST("/categories", ah.CreateCategory)
	admin.GET("/promos", ah.ListPromos)
	admin.POST("/promos", ah.CreatePromo)
	admin.PUT("/promos/:id", ah.UpdatePromo)
	admin.DELETE("/promos/:id", ah.DeletePromo)
	admin.GET("/verifications", ah.ListVerifications)
	admin.POST("/verifications/:id", ah.DecideVerification)
	admin.GET("/payouts", ah.PendingPayouts)
	admin.POST("/payouts/:id", ah.ProcessPayout)
	admin.GET("/dashboard", ah.Dashboard)

	return r
}
