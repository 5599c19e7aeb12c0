// Entry point: loads config, wires module services, starts the HTTP server
// and the dispatch scheduler.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"jetfood/internal/config"
	httptransport "jetfood/internal/http"
	"jetfood/internal/infra"
	"jetfood/internal/maps"
	"jetfood/internal/modules/account"
	"jetfood/internal/modules/catalog"
	"jetfood/internal/modules/courier"
	"jetfood/internal/modules/dispatch"
	"jetfood/internal/modules/geo"
	"jetfood/internal/modules/insights"
	"jetfood/internal/modules/order"
	"jetfood/internal/modules/pricing"
	"jetfood/internal/modules/settings"
	"jetfood/internal/modules/settlement"
	"jetfood/internal/paylink"
)

func main() {
	_ = godotenv.Load()
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("database connect failed")
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	var geocoder account.Geocoder
	if cfg.Maps.APIKey != "" {
		g, err := maps.NewGeocoder(cfg.Maps.APIKey)
		if err != nil {
			logrus.WithError(err).Fatal("maps client init failed")
		}
		geocoder = g
	} else {
		logrus.Warn("no maps api key; addresses will not be geocoded")
	}

	settingsSvc := settings.NewService(settings.NewStore(dbPool), settings.NewCache(redisClient))
	accountSvc := account.NewService(account.NewStore(dbPool), geocoder)
	catalogSvc := catalog.NewService(catalog.NewStore(dbPool))

	promoStore := pricing.NewStore(dbPool)
	pricer := pricing.NewService(catalog.NewStore(dbPool), promoStore, settingsSvc, cfg.Fees)

	payments := paylink.NewClient(cfg.Paylink)
	stl := settlement.NewService(payments, cfg.Paylink, cfg.Fees)

	geoSvc := geo.NewService(settingsSvc)
	courierSvc := courier.NewService(courier.NewStore(dbPool))

	orderStore := order.NewStore(dbPool)
	orderSvc := order.NewService(orderStore, pricer, stl, geoSvc, catalogSvc, accountSvc, courierSvc)

	dispatchSvc := dispatch.NewService(orderStore, cfg.Dispatch)
	insightsSvc := insights.NewService(insights.NewStore(dbPool), cfg.AI.GeminiKey)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Settings:      settingsSvc,
		Account:       accountSvc,
		Catalog:       catalogSvc,
		Promos:        promoStore,
		Orders:        orderSvc,
		Couriers:      courierSvc,
		Insights:      insightsSvc,
		WebhookSecret: cfg.Paylink.WebhookSecret,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: router}

	go dispatchSvc.Run(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("server shutdown failed")
		}
	}()

	logrus.WithField("addr", cfg.HTTP.Addr).Info("starting server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("server failed")
	}
	logrus.Info("server stopped")
}
