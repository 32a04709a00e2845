package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"tradeledger/configs"
	"tradeledger/internal/database"
	deliveryhttp "tradeledger/internal/delivery/http"
	"tradeledger/internal/infra"
	"tradeledger/internal/repository"
	"tradeledger/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()
	if cfg.Server.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.MigrateUp(cfg.Database.URL); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	codeRepo := repository.NewInviteCodeRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	uowFactory := repository.NewUnitOfWorkFactory(db)

	// Initialize services
	priceSource := service.NewMarketPriceService(cfg.Market.BaseURL, cfg.Market.Timeout)
	accountService := service.NewAccountService(uowFactory, accountRepo, positionRepo, transactionRepo)
	ledgerService := service.NewLedgerService(uowFactory, codeRepo)
	tradingService := service.NewTradingService(uowFactory, positionRepo, priceSource)

	// Seed the admin account on first boot
	if err := accountService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		logrus.Fatalf("Failed to ensure admin account: %v", err)
	}

	// Load HTML templates
	templates, err := deliveryhttp.LoadTemplates()
	if err != nil {
		logrus.Fatalf("Failed to load templates: %v", err)
	}

	// Initialize handlers
	webHandler := deliveryhttp.NewWebHandler(templates, accountService)
	adminHandler := deliveryhttp.NewAdminHandler(templates, accountService, ledgerService, tradingService)
	apiHandler := deliveryhttp.NewAPIHandler(ledgerService)

	// Initialize HTTP server
	e := echo.New()
	e.HideBanner = true
	deliveryhttp.SetupRoutes(e, &deliveryhttp.RouterConfig{
		WebHandler:      webHandler,
		AdminHandler:    adminHandler,
		APIHandler:      apiHandler,
		AccountResolver: accountService,
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logrus.Infof("Starting server on %s (env: %s)", addr, cfg.Server.Env)

	// Run server in goroutine
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited gracefully")
}
