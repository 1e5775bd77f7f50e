package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/premiumgate/premiumgate/internal/pkg/env"
)

// Config holds everything cmd/premiumgate needs to wire the application.
type Config struct {
	// Host and Port form the listen address.
	Host string
	Port string
	// Dev enables verbose logging and defaults the checkout to sandbox mode.
	Dev bool
	// LogLevel is a charmbracelet/log level name.
	LogLevel string
	// SecretKey signs and encrypts session cookies.
	SecretKey string
	// SessionTTL is the session expiration.
	SessionTTL time.Duration
	// PublicBaseURL overrides the request-derived base for provider callback URLs.
	PublicBaseURL string
	// TrustReturnRedirect makes /pagamento_sucesso activate without asking the provider.
	TrustReturnRedirect bool

	Database DatabaseConfig
	Cache    CacheConfig
	Payment  PaymentConfig
	Offer    OfferConfig
	Metrics  MetricsConfig
}

// DatabaseConfig selects and configures the gorm dialector.
type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// CacheConfig configures the optional redis server. An empty Host disables it.
type CacheConfig struct {
	Host     string
	Port     string
	Password string
}

// Enabled reports whether a redis host was configured.
func (c CacheConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != ""
}

// Addr returns host:port.
func (c CacheConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// PaymentConfig configures the Mercado Pago client.
type PaymentConfig struct {
	AccessToken string
	APIURL      string
	Sandbox     bool
	Timeout     time.Duration
}

// OfferConfig describes the single premium item sold at checkout.
type OfferConfig struct {
	Title               string
	Description         string
	CurrencyID          string
	UnitPrice           float64
	StatementDescriptor string
}

// MetricsConfig protects /metrics with basic auth when both fields are set.
type MetricsConfig struct {
	User     string
	Password string
}

// Protected reports whether basic auth credentials were configured.
func (m MetricsConfig) Protected() bool {
	return m.User != "" && m.Password != ""
}

var (
	ErrMissingSecretKey    = errors.New("SECRET_KEY is not configured")
	ErrMissingPaymentToken = errors.New("MERCADOPAGO_TOKEN is not configured")
)

// Load reads the configuration from the environment (and .env, if loaded).
func Load() Config {
	dev := env.IsDev()
	return Config{
		Host:                env.GetEnv("APP_HOST", "localhost"),
		Port:                env.GetEnv("APP_PORT", "4000"),
		Dev:                 dev,
		LogLevel:            env.GetEnv("LOG_LEVEL", "info"),
		SecretKey:           strings.TrimSpace(env.GetEnv("SECRET_KEY", "")),
		SessionTTL:          env.GetDuration("SESSION_TTL", 24*time.Hour),
		PublicBaseURL:       strings.TrimRight(strings.TrimSpace(env.GetEnv("PUBLIC_BASE_URL", "")), "/"),
		TrustReturnRedirect: env.GetBool("CHECKOUT_TRUST_RETURN", false),
		Database: DatabaseConfig{
			Driver:   strings.ToLower(env.GetEnv("DB_DRIVER", "sqlite")),
			Path:     env.GetEnv("DB_PATH", "usuarios.db"),
			Host:     env.GetEnv("DB_HOST", "127.0.0.1"),
			Port:     env.GetEnv("DB_PORT", "3306"),
			User:     env.GetEnv("DB_USER", ""),
			Password: env.GetEnv("DB_PASSWORD", ""),
			Name:     env.GetEnv("DB_NAME", ""),
		},
		Cache: CacheConfig{
			Host:     env.GetEnv("CACHE_HOST", ""),
			Port:     env.GetEnv("CACHE_PORT", "6379"),
			Password: env.GetEnv("CACHE_PASSWORD", ""),
		},
		Payment: PaymentConfig{
			AccessToken: strings.TrimSpace(env.GetEnv("MERCADOPAGO_TOKEN", "")),
			APIURL:      strings.TrimRight(env.GetEnv("MERCADOPAGO_API_URL", "https://api.mercadopago.com"), "/"),
			Sandbox:     env.GetBool("MERCADOPAGO_SANDBOX", dev),
			Timeout:     env.GetDuration("MERCADOPAGO_TIMEOUT", 15*time.Second),
		},
		Offer: OfferConfig{
			Title:               env.GetEnv("PREMIUM_TITLE", "Assinatura Premium Mensal"),
			Description:         env.GetEnv("PREMIUM_DESCRIPTION", "Acesso completo à área premium por 30 dias"),
			CurrencyID:          env.GetEnv("PREMIUM_CURRENCY", "BRL"),
			UnitPrice:           env.GetFloat("PREMIUM_PRICE", 15.0),
			StatementDescriptor: env.GetEnv("PREMIUM_STATEMENT_DESCRIPTOR", "PREMIUMASSINATURA"),
		},
		Metrics: MetricsConfig{
			User:     env.GetEnv("METRICS_USER", ""),
			Password: env.GetEnv("METRICS_PASSWORD", ""),
		},
	}
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, ErrMissingSecretKey)
	}
	if c.Payment.AccessToken == "" {
		errs = append(errs, ErrMissingPaymentToken)
	}
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
