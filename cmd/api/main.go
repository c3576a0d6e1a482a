package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pratoexpress/delivery/internal/api"
	"github.com/pratoexpress/delivery/internal/auth"
	"github.com/pratoexpress/delivery/internal/config"
	"github.com/pratoexpress/delivery/internal/events"
	"github.com/pratoexpress/delivery/internal/store"
	"github.com/pratoexpress/delivery/internal/ws"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg := config.FromEnv()

	db, err := store.Open(cfg.DSN(), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	st := store.New(db, logger)
	if err := st.CreateSchema(context.Background()); err != nil {
		logger.WithError(err).Fatal("Failed to create schema")
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret)
	handler := api.NewHandler(st, st, st, st, issuer, logger)

	if cfg.KafkaBrokers != "" {
		producer, err := events.NewProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create Kafka producer")
		}
		defer producer.Close()
		handler.SetEventPublisher(producer)
		logger.WithField("brokers", cfg.KafkaBrokers).Info("Event publishing enabled")
	}

	hub := ws.NewHub(logger)
	go hub.Run()
	handler.SetOrderNotifier(hub)

	router := api.NewRouter(handler, issuer, hub.HandleWebSocket, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Starting delivery API")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server gracefully stopped")
}
