package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	Log       LogConfig
	CORS      CORSConfig
	S3        S3Config
	Email     EmailConfig
	Assist    AssistConfig
	Payments  PaymentsConfig
	Recurring RecurringConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// S3Config holds object storage settings for template logos.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// AssistProviderConfig holds settings for a single LLM extraction provider.
type AssistProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// AssistConfig holds AI-assisted invoice creation settings, with an
// optional secondary provider used as a fallback.
type AssistConfig struct {
	Primary   AssistProviderConfig `mapstructure:"primary"`
	Secondary AssistProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not set.
func (a *AssistConfig) SecondaryConfig() *AssistProviderConfig {
	if a.Secondary.Provider != "" {
		return &a.Secondary
	}
	return nil
}

// PaymentsConfig holds payment gateway settings.
type PaymentsConfig struct {
	StripeSecretKey      string `mapstructure:"stripe_secret_key"`
	StripeWebhookSecret  string `mapstructure:"stripe_webhook_secret"`
	CoinbaseAPIKey       string `mapstructure:"coinbase_api_key"`
	CoinbaseWebhookSecret string `mapstructure:"coinbase_webhook_secret"`
	SuccessURL           string `mapstructure:"success_url"`
	CancelURL            string `mapstructure:"cancel_url"`
}

// RecurringConfig holds recurring invoice worker settings.
type RecurringConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	Concurrency      int `mapstructure:"concurrency"`
}

// Load reads configuration from environment variables with the SLEEK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SLEEK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "sleek")
	v.SetDefault("db.password", "sleek_secret")
	v.SetDefault("db.name", "sleek_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "sleekinvoices")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "sleekinvoices-assets")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 5)
	v.SetDefault("s3.presign_expiry", 3600)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "billing@sleekinvoices.com")
	v.SetDefault("email.from_name", "SleekInvoices")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Assist defaults
	v.SetDefault("assist.primary.provider", "openai")
	v.SetDefault("assist.primary.api_key", "")
	v.SetDefault("assist.primary.default_model", "")
	v.SetDefault("assist.primary.timeout_secs", 60)
	v.SetDefault("assist.secondary.provider", "")
	v.SetDefault("assist.secondary.api_key", "")
	v.SetDefault("assist.secondary.default_model", "")
	v.SetDefault("assist.secondary.timeout_secs", 60)

	// Payments defaults
	v.SetDefault("payments.stripe_secret_key", "")
	v.SetDefault("payments.stripe_webhook_secret", "")
	v.SetDefault("payments.coinbase_api_key", "")
	v.SetDefault("payments.coinbase_webhook_secret", "")
	v.SetDefault("payments.success_url", "http://localhost:3000/payments/success")
	v.SetDefault("payments.cancel_url", "http://localhost:3000/payments/cancelled")

	// Recurring worker defaults
	v.SetDefault("recurring.poll_interval_secs", 60)
	v.SetDefault("recurring.concurrency", 3)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "SLEEK_SERVER_PORT",
		"server.read_timeout":  "SLEEK_SERVER_READ_TIMEOUT",
		"server.write_timeout": "SLEEK_SERVER_WRITE_TIMEOUT",
		"server.environment":   "SLEEK_SERVER_ENVIRONMENT",
		"db.host":              "SLEEK_DB_HOST",
		"db.port":              "SLEEK_DB_PORT",
		"db.user":              "SLEEK_DB_USER",
		"db.password":          "SLEEK_DB_PASSWORD",
		"db.name":              "SLEEK_DB_NAME",
		"db.sslmode":           "SLEEK_DB_SSLMODE",
		"db.max_open":          "SLEEK_DB_MAX_OPEN",
		"db.max_idle":          "SLEEK_DB_MAX_IDLE",
		"jwt.secret":           "SLEEK_JWT_SECRET",
		"jwt.access_expiry":    "SLEEK_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":   "SLEEK_JWT_REFRESH_EXPIRY",
		"jwt.issuer":           "SLEEK_JWT_ISSUER",
		"log.level":            "SLEEK_LOG_LEVEL",
		"log.format":           "SLEEK_LOG_FORMAT",
		"cors.allowed_origins": "SLEEK_CORS_ALLOWED_ORIGINS",
		"s3.region":            "SLEEK_S3_REGION",
		"s3.bucket":            "SLEEK_S3_BUCKET",
		"s3.endpoint":          "SLEEK_S3_ENDPOINT",
		"s3.access_key":        "SLEEK_S3_ACCESS_KEY",
		"s3.secret_key":        "SLEEK_S3_SECRET_KEY",
		"s3.max_file_size_mb":  "SLEEK_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":    "SLEEK_S3_PRESIGN_EXPIRY",
		"email.provider":       "SLEEK_EMAIL_PROVIDER",
		"email.region":         "SLEEK_EMAIL_REGION",
		"email.from_address":   "SLEEK_EMAIL_FROM_ADDRESS",
		"email.from_name":      "SLEEK_EMAIL_FROM_NAME",
		"email.frontend_url":   "SLEEK_EMAIL_FRONTEND_URL",
		"assist.primary.provider":        "SLEEK_ASSIST_PRIMARY_PROVIDER",
		"assist.primary.api_key":         "SLEEK_ASSIST_PRIMARY_API_KEY",
		"assist.primary.default_model":   "SLEEK_ASSIST_PRIMARY_DEFAULT_MODEL",
		"assist.primary.timeout_secs":    "SLEEK_ASSIST_PRIMARY_TIMEOUT_SECS",
		"assist.secondary.provider":      "SLEEK_ASSIST_SECONDARY_PROVIDER",
		"assist.secondary.api_key":       "SLEEK_ASSIST_SECONDARY_API_KEY",
		"assist.secondary.default_model": "SLEEK_ASSIST_SECONDARY_DEFAULT_MODEL",
		"assist.secondary.timeout_secs":  "SLEEK_ASSIST_SECONDARY_TIMEOUT_SECS",
		"payments.stripe_secret_key":       "SLEEK_PAYMENTS_STRIPE_SECRET_KEY",
		"payments.stripe_webhook_secret":   "SLEEK_PAYMENTS_STRIPE_WEBHOOK_SECRET",
		"payments.coinbase_api_key":        "SLEEK_PAYMENTS_COINBASE_API_KEY",
		"payments.coinbase_webhook_secret": "SLEEK_PAYMENTS_COINBASE_WEBHOOK_SECRET",
		"payments.success_url":             "SLEEK_PAYMENTS_SUCCESS_URL",
		"payments.cancel_url":              "SLEEK_PAYMENTS_CANCEL_URL",
		"recurring.poll_interval_secs": "SLEEK_RECURRING_POLL_INTERVAL_SECS",
		"recurring.concurrency":        "SLEEK_RECURRING_CONCURRENCY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SLEEK_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SLEEK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.Assist = AssistConfig{
		Primary: AssistProviderConfig{
			Provider:     v.GetString("assist.primary.provider"),
			APIKey:       v.GetString("assist.primary.api_key"),
			DefaultModel: v.GetString("assist.primary.default_model"),
			TimeoutSecs:  v.GetInt("assist.primary.timeout_secs"),
		},
		Secondary: AssistProviderConfig{
			Provider:     v.GetString("assist.secondary.provider"),
			APIKey:       v.GetString("assist.secondary.api_key"),
			DefaultModel: v.GetString("assist.secondary.default_model"),
			TimeoutSecs:  v.GetInt("assist.secondary.timeout_secs"),
		},
	}
	cfg.Payments = PaymentsConfig{
		StripeSecretKey:       v.GetString("payments.stripe_secret_key"),
		StripeWebhookSecret:   v.GetString("payments.stripe_webhook_secret"),
		CoinbaseAPIKey:        v.GetString("payments.coinbase_api_key"),
		CoinbaseWebhookSecret: v.GetString("payments.coinbase_webhook_secret"),
		SuccessURL:            v.GetString("payments.success_url"),
		CancelURL:             v.GetString("payments.cancel_url"),
	}
	cfg.Recurring = RecurringConfig{
		PollIntervalSecs: v.GetInt("recurring.poll_interval_secs"),
		Concurrency:      v.GetInt("recurring.concurrency"),
	}

	return cfg, nil
}
