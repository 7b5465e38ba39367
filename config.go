package main

import (
	"fmt"
	"os"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Port        string
	Environment string

	MongoURL    string
	MongoDBName string
	RedisURL    string

	AccessTokenSecret  string
	RefreshTokenSecret string

	ProviderKeyID     string
	ProviderKeySecret string
	Currency          string

	ClientOrigin string
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "5000"),
		Environment:        getEnv("ENV", "development"),
		MongoURL:           getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDBName:        getEnv("MONGO_DB", "storefront"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		ProviderKeyID:      os.Getenv("RAZORPAY_KEY_ID"),
		ProviderKeySecret:  os.Getenv("RAZORPAY_KEY_SECRET"),
		Currency:           getEnv("CURRENCY", "INR"),
		ClientOrigin:       getEnv("CLIENT_ORIGIN", "http://localhost:3000"),
	}

	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, fmt.Errorf("token secrets not configured")
	}
	if cfg.ProviderKeyID == "" || cfg.ProviderKeySecret == "" {
		return nil, fmt.Errorf("payment provider credentials not configured")
	}
	return cfg, nil
}

// Production reports whether the service runs with production hardening
// (secure cookies, JSON logs).
func (c *Config) Production() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
