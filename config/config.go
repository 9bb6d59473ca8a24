// Package config loads service settings from the environment, with an
// optional .env file for local development.
package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	SessionTTL     time.Duration
	TokenValidity  time.Duration
	JWTSecret      string
	DocsDB         string
	PeopleDB       string
	RPID           string
	AllowedOrigins []string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}
	return Config{
		Port:           getEnv("PORT", "6969"),
		SessionTTL:     getDuration("SESSION_TTL", 90*time.Second),
		TokenValidity:  getDuration("TOKEN_VALIDITY", 8*time.Hour),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		DocsDB:         getEnv("DOCS_DB", "./documents.db"),
		PeopleDB:       getEnv("PEOPLE_DB", "./people.db"),
		RPID:           getEnv("RP_ID", "localhost"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid %s %q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
