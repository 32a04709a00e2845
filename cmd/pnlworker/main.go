package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"tradeledger/configs"
	"tradeledger/internal/infra"
	"tradeledger/internal/repository"
	"tradeledger/internal/service"
)

// pnlworker periodically refreshes the unrealized P&L of every open
// position against the latest market price. It runs as its own process
// so a slow price feed never stalls the web app.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found, using environment variables")
	}

	cfg := configs.Load()

	ctx := context.Background()

	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	positionRepo := repository.NewPositionRepository(db)
	uowFactory := repository.NewUnitOfWorkFactory(db)
	priceSource := service.NewMarketPriceService(cfg.Market.BaseURL, cfg.Market.Timeout)
	tradingService := service.NewTradingService(uowFactory, positionRepo, priceSource)

	scheduler := cron.New()

	// Refresh open-position P&L every minute
	_, err = scheduler.AddFunc("*/1 * * * *", func() {
		ctx := context.Background()
		if err := tradingService.RefreshOpenPnL(ctx); err != nil {
			logrus.Errorf("P&L refresh failed: %v", err)
		}
	})
	if err != nil {
		logrus.Fatalf("Failed to add P&L refresh cron job: %v", err)
	}

	scheduler.Start()
	logrus.Info("P&L worker started: refreshing open positions every 1 minute")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down P&L worker...")
	scheduler.Stop()
	logrus.Info("P&L worker exited gracefully")
}
