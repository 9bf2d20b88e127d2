package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string
	DatabaseURL   string
	UploadDir     string
	AdminPassword string

	Daraja struct {
		APIURL         string
		ConsumerKey    string
		ConsumerSecret string
		ShortCode      string
		Passkey        string
		CallbackURL    string
	}

	Classifier struct {
		APIURL string
		APIKey string
	}

	Consul struct {
		Host        string
		ServiceName string
	}
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.ServerPort = getenv("SERVER_PORT", "8080")
	cfg.UploadDir = getenv("UPLOAD_DIR", "uploads")

	var err error
	if cfg.DatabaseURL, err = require("DATABASE_URL"); err != nil {
		return nil, err
	}
	if cfg.AdminPassword, err = require("ADMIN_PASSWORD"); err != nil {
		return nil, err
	}

	cfg.Daraja.APIURL = getenv("DARAJA_API_URL", "https://sandbox.safaricom.co.ke")
	if cfg.Daraja.ConsumerKey, err = require("DARAJA_CONSUMER_KEY"); err != nil {
		return nil, err
	}
	if cfg.Daraja.ConsumerSecret, err = require("DARAJA_CONSUMER_SECRET"); err != nil {
		return nil, err
	}
	if cfg.Daraja.ShortCode, err = require("DARAJA_SHORT_CODE"); err != nil {
		return nil, err
	}
	if cfg.Daraja.Passkey, err = require("DARAJA_PASSKEY"); err != nil {
		return nil, err
	}
	if cfg.Daraja.CallbackURL, err = require("DARAJA_CALLBACK_URL"); err != nil {
		return nil, err
	}

	if cfg.Classifier.APIURL, err = require("CLASSIFIER_API_URL"); err != nil {
		return nil, err
	}
	cfg.Classifier.APIKey = os.Getenv("CLASSIFIER_API_KEY")

	// Consul registration is opt-in: leave SERVICE_NAME unset to disable.
	cfg.Consul.Host = getenv("CONSUL_HOST", "localhost")
	cfg.Consul.ServiceName = os.Getenv("SERVICE_NAME")

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func require(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("%s must be set", key)
	}
	return v, nil
}
