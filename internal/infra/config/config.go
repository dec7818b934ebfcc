package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds environment-resolved settings for the whole application.
type Config struct {
	Port string `env:"PORT" envDefault:"4000"`

	// GCP / Firestore
	GCPProjectID             string `env:"GCP_PROJECT_ID"`
	FirestoreProjectID       string `env:"FIRESTORE_PROJECT_ID"`
	FirestoreCredentialsFile string `env:"FIRESTORE_CREDENTIALS_FILE"`

	// Catalog database
	PostgresDSN string `env:"POSTGRES_DSN"`

	// Credential issuance
	JWTSecret     string        `env:"JWT_SECRET"`
	JWTSecretName string        `env:"JWT_SECRET_NAME"`
	JWTExpiresIn  time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`

	// Mail
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	MailFrom       string `env:"MAIL_FROM" envDefault:"noreply@flipmart.dev"`

	// Product images
	ProductImageBucket string `env:"PRODUCT_IMAGE_BUCKET"`

	// CORS
	AllowedOrigin string `env:"ALLOWED_ORIGIN" envDefault:"*"`
}

// Load reads .env (best effort) and parses environment variables.
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if cfg.FirestoreProjectID == "" {
		cfg.FirestoreProjectID = cfg.GCPProjectID
	}
	return cfg, nil
}

// GetFirestoreProjectID returns the Firestore/GCP project ID.
func (c *Config) GetFirestoreProjectID() string {
	return c.FirestoreProjectID
}
