package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"learnplay-commerce/internal/client"
	"learnplay-commerce/internal/config"
	"learnplay-commerce/internal/repository"
	"learnplay-commerce/internal/server"
	"learnplay-commerce/internal/service"
	"learnplay-commerce/pkg/logger"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service: "learnplay-commerce",
		Env:     cfg.Environment.Name,
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
	})

	db := client.InitMysqlClient(cfg.DatabaseURL)
	wooClient := client.NewWooClient(&cfg.Woo)
	mailClient := client.NewMailClient(&cfg.Mail)

	wooOrderRepo := repository.NewWooOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	userRepo := repository.NewUserRepository(db)
	fileRepo := repository.NewFileRepository(db)

	if err := subscriptionRepo.SeedPlans(context.Background()); err != nil {
		log.Error("seed plans", "error", err)
		os.Exit(1)
	}

	notificationService := service.NewNotificationService(mailClient, userRepo)

	srv := server.NewServer(
		cfg.Session.JWTSecret,
		service.NewOrderService(wooClient),
		service.NewWebhookService(cfg.Woo.WebhookSecret, wooOrderRepo),
		service.NewPaymentService(db, paymentRepo, notificationService),
		service.NewSubscriptionService(subscriptionRepo),
		notificationService,
		service.NewDownloadService(cfg.BaseURL, cfg.Session.JWTSecret, fileRepo, paymentRepo, wooOrderRepo),
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Info("starting HTTP server", "addr", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}
}
