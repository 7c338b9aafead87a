// Package config loads runtime configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultListenAddr = ":8080"
	defaultMongoURI   = "mongodb://localhost:27017/?replicaSet=rs0"
	defaultDatabase   = "north_lions"
	defaultTokenTTL   = 24 * time.Hour
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

type Config struct {
	ListenAddr        string
	MongoURI          string
	MongoDatabase     string
	JWTSecret         string
	TokenTTL          time.Duration
	LineChannelToken  string
	LineChannelSecret string
	CORSOrigins       string
}

// Load reads the environment. A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListenAddr:        getenv("LISTEN_ADDR", defaultListenAddr),
		MongoURI:          getenv("MONGO_URI", defaultMongoURI),
		MongoDatabase:     getenv("MONGO_DATABASE", defaultDatabase),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenTTL:          getenvDuration("TOKEN_TTL", defaultTokenTTL),
		LineChannelToken:  os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		LineChannelSecret: os.Getenv("LINE_CHANNEL_SECRET"),
		CORSOrigins:       getenv("CORS_ORIGINS", "http://localhost:5173"),
	}
}

// ValidateForServe checks the fields the API server cannot run without.
func (c Config) ValidateForServe() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
