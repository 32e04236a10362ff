// Package config centraliza la lectura de variables de entorno.
package config

import "os"

type Config struct {
	Port string
	Env  string

	// Si está vacía, la app corre con repos in-memory (modo dev).
	DatabaseURL string

	// Si está vacío, la auth corre en modo dev (headers X-Debug-*).
	JWTSecret string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	CORSAllowedOrigin string

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "noreply@urbananimal.clinic"),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Urban Animal Clinic"),

		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
