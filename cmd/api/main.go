package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-backend/config"
	"storefront-backend/internal/delivery/http/middleware"
	v1 "storefront-backend/internal/delivery/http/v1"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/infrastructure/metrics"
	"storefront-backend/internal/infrastructure/sink"
	"storefront-backend/internal/repository/memory"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/storage"
	"storefront-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
)

const (
	serviceName    = "storefront-backend"
	serviceVersion = "1.0.0"
	storeName      = "Wholesale Beauty Supply"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.SessionSecret)

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	// Repositories (in-memory, reset on restart)
	productRepo := memory.NewProductRepository(memory.SeedProducts())

	// Caches: sessions slide on access, catalog listings expire after CACHE_CATALOG_TTL
	sessionCache := cache.NewMemoryCache(cfg.SessionTTL, cfg.SessionCleanupInterval)
	catalogCache := cache.NewMemoryCache(cfg.CacheCatalogTTL, 2*cfg.CacheCatalogTTL)

	sessionUC := usecase.NewSessionUsecase(sessionCache, cfg.SessionTTL)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(func() float64 { return float64(sessionUC.Count()) })
	}

	// Order sink for the configured checkout variant
	orderSink, err := sink.FromConfig(cfg, storeName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize order sink")
	}
	log.Info().Str("variant", string(cfg.CheckoutVariant)).Str("channel", orderSink.Channel()).Msg("Order sink ready")

	// --- Storage Module (R2), optional ---
	var images domain.ImageStore
	r2Opts := storage.R2Options{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		AccessKeySecret: cfg.R2AccessKeySecret,
		BucketName:      cfg.R2BucketName,
		PublicURL:       cfg.R2PublicURL,
		Endpoint:        cfg.R2Endpoint,
		UploadTimeout:   cfg.R2UploadTimeout,
	}
	if r2Opts.Configured() {
		r2Storage, err := storage.NewR2Storage(context.Background(), r2Opts)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
		}
		images = r2Storage
	} else {
		log.Warn().Msg("R2 storage not configured, image uploads disabled")
	}

	pricing := usecase.DeliveryPricing{
		Currency:  cfg.Currency,
		Threshold: cfg.FreeDeliveryThreshold,
		Fee:       cfg.DeliveryFee,
		TaxRate:   cfg.TaxRate,
	}

	// --- Modules Initialization ---
	catalogUC := usecase.NewCatalogUsecase(productRepo, catalogCache, images, cfg)
	cartUC := usecase.NewCartUsecase(sessionUC, productRepo, m, cfg.MaxCartQuantity)
	checkoutUC := usecase.NewCheckoutUsecase(sessionUC, orderSink, pricing, cfg.CheckoutVariant, m)
	statsUC := usecase.NewStatsUsecase(productRepo, sessionUC, checkoutUC, cfg.Currency)

	settings := domain.StorefrontSettings{
		Currency:              cfg.Currency,
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
		DeliveryFee:           cfg.DeliveryFee,
		TaxRate:               cfg.TaxRate,
		CheckoutVariant:       cfg.CheckoutVariant,
		Steps:                 cfg.CheckoutVariant.Steps(),
		MaxCartQuantity:       cfg.MaxCartQuantity,
	}

	// Set up Router
	mux := http.NewServeMux()
	v1.RegisterRoutes(mux, v1.Handlers{
		Catalog:      v1.NewCatalogHandler(catalogUC),
		AdminCatalog: v1.NewAdminCatalogHandler(catalogUC),
		AdminStats:   v1.NewAdminStatsHandler(statsUC),
		Cart:         v1.NewCartHandler(cartUC),
		Checkout:     v1.NewCheckoutHandler(checkoutUC, cfg.CheckoutSubmitTimeout),
		Config:       v1.NewConfigHandler(settings),
		Upload:       v1.NewUploadHandler(images, cfg.MaxUploadSizeMB),
	}, middleware.NewSessionMiddleware(sessionUC, cfg.SessionTTL, cfg.Env == "production"))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"sessions": sessionUC.Count(),
			"variant":  cfg.CheckoutVariant,
		})
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Root health check for load balancers

	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		cfg.RateLimitRPS,
		cfg.RateLimitBurst,
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// CORS -> Request Logger -> Rate Limit -> Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, serviceVersion, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")
	rateLimiter.Shutdown()

	// In-flight submits may still be waiting on the payment API.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.CheckoutSubmitTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop(serviceName)
}
