package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"storefront-backend/internal/domain"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const defaultSessionSecret = "default_secret_CHANGE_ME"

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	AllowedOrigin string
	// Anonymous sessions
	SessionSecret          string
	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration
	// Checkout
	CheckoutVariant       domain.CheckoutVariant
	Currency              string
	FreeDeliveryThreshold decimal.Decimal
	DeliveryFee           decimal.Decimal
	TaxRate               decimal.Decimal
	CheckoutSubmitTimeout time.Duration
	// Order sinks
	PaymentAPIURL         string
	PaymentAPIKey         string
	PaymentAPITimeout     time.Duration
	PaymentAPIRetries     int
	SimulatedPaymentDelay time.Duration
	WhatsAppNumber        string
	// R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2PublicURL       string
	R2Endpoint        string
	// Upload Configuration
	MaxUploadSizeMB int64
	R2UploadTimeout time.Duration
	// Business Rules
	MaxCartQuantity int
	// Cache
	CacheCatalogTTL time.Duration
	// Ops
	MetricsEnabled bool
	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: .env for local dev, system env vars otherwise
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("CRITICAL: invalid configuration: %v", err)
	}
	if cfg.SessionSecret == defaultSessionSecret {
		log.Println("WARNING: Using default session secret. Set SESSION_SECRET in production.")
	}
	if cfg.CheckoutVariant == domain.VariantWhatsApp && cfg.WhatsAppNumber == "" {
		log.Println("WARNING: WHATSAPP_NUMBER not set, order links will let the customer pick a chat")
	}
	return cfg
}

// FromEnv reads the configuration from the process environment without
// loading any file or validating it.
func FromEnv() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		SessionSecret:          getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionTTL:             getDurationEnv("SESSION_TTL", 24*time.Hour),
		SessionCleanupInterval: getDurationEnv("SESSION_CLEANUP_INTERVAL", 10*time.Minute),

		// Checkout defaults match the wholesale deployment: WhatsApp ordering in Naira
		CheckoutVariant:       domain.CheckoutVariant(strings.ToLower(getEnv("CHECKOUT_VARIANT", string(domain.VariantWhatsApp)))),
		Currency:              getEnv("CURRENCY", "NGN"),
		FreeDeliveryThreshold: getDecimalEnv("FREE_DELIVERY_THRESHOLD", decimal.NewFromInt(50000)),
		DeliveryFee:           getDecimalEnv("DELIVERY_FEE", decimal.NewFromInt(2500)),
		TaxRate:               getDecimalEnv("TAX_RATE", decimal.Zero),
		CheckoutSubmitTimeout: getDurationEnv("CHECKOUT_SUBMIT_TIMEOUT", time.Minute),

		PaymentAPIURL:         getEnv("PAYMENT_API_URL", ""),
		PaymentAPIKey:         getEnv("PAYMENT_API_KEY", ""),
		PaymentAPITimeout:     getDurationEnv("PAYMENT_API_TIMEOUT", 10*time.Second),
		PaymentAPIRetries:     getIntEnv("PAYMENT_API_RETRIES", 3),
		SimulatedPaymentDelay: getDurationEnv("SIMULATED_PAYMENT_DELAY", 3*time.Second),
		WhatsAppNumber:        getEnv("WHATSAPP_NUMBER", ""),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),
		R2Endpoint:        getEnv("R2_ENDPOINT", ""),

		// Upload defaults: 10MB max, 30s timeout
		MaxUploadSizeMB: getInt64Env("MAX_UPLOAD_SIZE_MB", 10),
		R2UploadTimeout: getDurationEnv("R2_UPLOAD_TIMEOUT", 30*time.Second),

		MaxCartQuantity: getIntEnv("MAX_CART_QUANTITY", 1000),

		CacheCatalogTTL: getDurationEnv("CACHE_CATALOG_TTL", 10*time.Minute),

		MetricsEnabled: getBoolEnv("METRICS_ENABLED", true),
		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if !c.CheckoutVariant.IsValid() {
		errs = append(errs, fmt.Errorf("CHECKOUT_VARIANT %q must be one of %v", c.CheckoutVariant, domain.CheckoutVariants))
	}
	if c.Currency == "" {
		errs = append(errs, errors.New("CURRENCY is required"))
	}
	if c.FreeDeliveryThreshold.IsNegative() {
		errs = append(errs, errors.New("FREE_DELIVERY_THRESHOLD must not be negative"))
	}
	if c.DeliveryFee.IsNegative() {
		errs = append(errs, errors.New("DELIVERY_FEE must not be negative"))
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		errs = append(errs, errors.New("TAX_RATE must be a fraction in [0, 1)"))
	}
	if c.PaymentAPIRetries < 1 {
		errs = append(errs, errors.New("PAYMENT_API_RETRIES must be at least 1"))
	}
	if c.MaxCartQuantity < 1 {
		errs = append(errs, errors.New("MAX_CART_QUANTITY must be at least 1"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	return errors.Join(errs...)
}
