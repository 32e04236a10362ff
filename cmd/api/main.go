package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	jwtauth "vet-appointments/internal/adapters/auth/jwt"
	"vet-appointments/internal/adapters/notify/sendgrid"
	"vet-appointments/internal/config"
	"vet-appointments/internal/platform/logger"
	"vet-appointments/internal/ports/auth"
	"vet-appointments/internal/ports/notify"
	"vet-appointments/internal/router"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	appLog := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    "vet-appointments",
	})

	// Sin secret corre en modo dev: identidad por headers X-Debug-*.
	var verifier auth.AuthVerifier
	if cfg.JWTSecret != "" {
		v, err := jwtauth.NewVerifier(cfg.JWTSecret)
		if err != nil {
			log.Fatalf("jwt verifier: %v", err)
		}
		verifier = v
		appLog.Info("jwt auth enabled", nil)
	} else {
		appLog.Warn("running in dev auth mode (X-Debug-* headers)", nil)
	}

	var notifier notify.Notifier
	if sender := sendgrid.NewSender(sendgrid.Config{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, appLog); sender != nil {
		notifier = sender
		appLog.Info("sendgrid notifier enabled", nil)
	}

	var origins []string
	if cfg.CORSAllowedOrigin != "" {
		origins = []string{cfg.CORSAllowedOrigin}
	}

	r := router.NewRouter(router.Options{
		AuthVerifier:       verifier,
		Notifier:           notifier,
		Log:                appLog,
		CORSAllowedOrigins: origins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	appLog.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.Env})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
