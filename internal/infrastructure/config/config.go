package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Payment   PaymentConfig
	Carrier   CarrierConfig
	AMQP      AMQPConfig
	Storage   StorageConfig
	Scheduler SchedulerConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
}

// DSN returns the postgres connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the host:port address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig holds settings for validating already-issued actor tokens
type JWTConfig struct {
	Secret string
	Issuer string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxBodySize      int64
	CORSAllowOrigins []string
}

// GatewayConfig holds one payment provider's credentials and endpoints
type GatewayConfig struct {
	Enabled   bool
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// PaymentConfig holds per-gateway payment settings
type PaymentConfig struct {
	CallbackURL string
	HydrogenPay GatewayConfig
	Paystack    GatewayConfig
}

// CarrierConfig holds logistics provider settings
type CarrierConfig struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
	TokenTTL time.Duration
}

// AMQPConfig holds message broker settings for the notifier
type AMQPConfig struct {
	URL      string
	Exchange string
}

// StorageConfig holds object-storage settings
type StorageConfig struct {
	Provider  string // s3 or local
	Bucket    string
	Region    string
	BaseURL   string
	AccessKey string
	SecretKey string
	LocalDir  string
}

// SchedulerConfig holds background-sweep settings
type SchedulerConfig struct {
	Enabled           bool
	SubscriptionSweep time.Duration
	SweepTimeout      time.Duration
}

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest): MARKETHUB_-prefixed env vars, config.toml,
// built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Missing config file is fine, defaults and env vars apply
	}

	v.SetEnvPrefix("MARKETHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
		},
		Payment: PaymentConfig{
			CallbackURL: v.GetString("payment.callback_url"),
			HydrogenPay: GatewayConfig{
				Enabled:   v.GetBool("payment.hydrogenpay.enabled"),
				BaseURL:   v.GetString("payment.hydrogenpay.base_url"),
				SecretKey: v.GetString("payment.hydrogenpay.secret_key"),
				Timeout:   v.GetDuration("payment.hydrogenpay.timeout"),
			},
			Paystack: GatewayConfig{
				Enabled:   v.GetBool("payment.paystack.enabled"),
				BaseURL:   v.GetString("payment.paystack.base_url"),
				SecretKey: v.GetString("payment.paystack.secret_key"),
				Timeout:   v.GetDuration("payment.paystack.timeout"),
			},
		},
		Carrier: CarrierConfig{
			BaseURL:  v.GetString("carrier.base_url"),
			Username: v.GetString("carrier.username"),
			Password: v.GetString("carrier.password"),
			Timeout:  v.GetDuration("carrier.timeout"),
			TokenTTL: v.GetDuration("carrier.token_ttl"),
		},
		AMQP: AMQPConfig{
			URL:      v.GetString("amqp.url"),
			Exchange: v.GetString("amqp.exchange"),
		},
		Storage: StorageConfig{
			Provider:  v.GetString("storage.provider"),
			Bucket:    v.GetString("storage.bucket"),
			Region:    v.GetString("storage.region"),
			BaseURL:   v.GetString("storage.base_url"),
			AccessKey: v.GetString("storage.access_key"),
			SecretKey: v.GetString("storage.secret_key"),
			LocalDir:  v.GetString("storage.local_dir"),
		},
		Scheduler: SchedulerConfig{
			Enabled:           v.GetBool("scheduler.enabled"),
			SubscriptionSweep: v.GetDuration("scheduler.subscription_sweep"),
			SweepTimeout:      v.GetDuration("scheduler.sweep_timeout"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "markethub-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "markethub"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.Env == "production" {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10 MiB
	}
	if cfg.Payment.HydrogenPay.BaseURL == "" {
		cfg.Payment.HydrogenPay.BaseURL = "https://api.hydrogenpay.com"
	}
	if cfg.Payment.HydrogenPay.Timeout == 0 {
		cfg.Payment.HydrogenPay.Timeout = 30 * time.Second
	}
	if cfg.Payment.Paystack.BaseURL == "" {
		cfg.Payment.Paystack.BaseURL = "https://api.paystack.co"
	}
	if cfg.Payment.Paystack.Timeout == 0 {
		cfg.Payment.Paystack.Timeout = 30 * time.Second
	}
	if cfg.Carrier.Timeout == 0 {
		cfg.Carrier.Timeout = 30 * time.Second
	}
	if cfg.Carrier.TokenTTL == 0 {
		cfg.Carrier.TokenTTL = 50 * time.Minute
	}
	if cfg.Storage.Provider == "" {
		cfg.Storage.Provider = "local"
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "./uploads"
	}
	if cfg.Scheduler.SubscriptionSweep == 0 {
		cfg.Scheduler.SubscriptionSweep = 24 * time.Hour
	}
	if cfg.Scheduler.SweepTimeout == 0 {
		cfg.Scheduler.SweepTimeout = 5 * time.Minute
	}
}

// validate checks configuration invariants that would otherwise surface as
// confusing runtime failures
func (c *Config) validate() error {
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}
	if c.Payment.HydrogenPay.Enabled && c.Payment.HydrogenPay.SecretKey == "" {
		return fmt.Errorf("payment.hydrogenpay.secret_key is required when the gateway is enabled")
	}
	if c.Payment.Paystack.Enabled && c.Payment.Paystack.SecretKey == "" {
		return fmt.Errorf("payment.paystack.secret_key is required when the gateway is enabled")
	}
	if c.Storage.Provider == "s3" && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required for the s3 provider")
	}
	return nil
}
