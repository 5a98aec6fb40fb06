// Package config loads service settings from the environment through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds every setting the service needs. It is built once at startup
// and passed into constructors; nothing reads viper after Load.
type Config struct {
	AppPort string

	DBDriver         string // postgres, sqlite or memory
	DatabaseDSN      string
	DBConnectTimeout time.Duration

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	CookieSecure   bool
	CookieSameSite string
	CORSOrigin     string

	UploadDir       string
	UploadBodyLimit int
	FetchTimeout    time.Duration

	RabbitMQURL      string
	PlaceEventsAudit bool
}

// NewViper returns a viper instance with the service defaults, reading
// overrides from the environment.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":4000")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "rental.db")
	v.SetDefault("DB_CONNECT_TIMEOUT", "60s")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("COOKIE_SAMESITE", "None")
	v.SetDefault("CORS_ORIGIN", "http://127.0.0.1:5173")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_BODY_LIMIT", 50<<20)
	v.SetDefault("FETCH_TIMEOUT", "15s")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("PLACE_EVENTS_AUDIT", false)
	v.AutomaticEnv() // Load environment variables
	return v
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppPort:          v.GetString("APP_PORT"),
		DBDriver:         strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		DBConnectTimeout: v.GetDuration("DB_CONNECT_TIMEOUT"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		TokenTTL:         v.GetDuration("TOKEN_TTL"),
		BcryptCost:       v.GetInt("BCRYPT_COST"),
		CookieSecure:     v.GetBool("COOKIE_SECURE"),
		CookieSameSite:   v.GetString("COOKIE_SAMESITE"),
		CORSOrigin:       v.GetString("CORS_ORIGIN"),
		UploadDir:        v.GetString("UPLOAD_DIR"),
		UploadBodyLimit:  v.GetInt("UPLOAD_BODY_LIMIT"),
		FetchTimeout:     v.GetDuration("FETCH_TIMEOUT"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		PlaceEventsAudit: v.GetBool("PLACE_EVENTS_AUDIT"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL < 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must not be negative, got %s", c.TokenTTL))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost))
	}
	switch c.DBDriver {
	case "postgres", "sqlite", "memory":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres, sqlite or memory, got %q", c.DBDriver))
	}
	if c.DBDriver != "memory" && c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required"))
	}
	switch strings.ToLower(c.CookieSameSite) {
	case "lax", "strict", "none":
	default:
		errs = append(errs, fmt.Errorf("COOKIE_SAMESITE must be Lax, Strict or None, got %q", c.CookieSameSite))
	}
	if c.CORSOrigin == "" || strings.Contains(c.CORSOrigin, "*") {
		errs = append(errs, errors.New("CORS_ORIGIN must name explicit origins; credentialed requests cannot use *"))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("UPLOAD_DIR is required"))
	}
	if c.UploadBodyLimit <= 0 {
		errs = append(errs, errors.New("UPLOAD_BODY_LIMIT must be positive"))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, errors.New("FETCH_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}
