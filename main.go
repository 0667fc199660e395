package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"gridbot/config"
	"gridbot/internal/adapters/binanceclient"
	"gridbot/internal/adapters/console"
	"gridbot/internal/adapters/logger"
	"gridbot/internal/adapters/sqlite"
	"gridbot/internal/app"
	"gridbot/internal/pricing"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger (console + events log file)
	appLogger, err := logger.NewFileLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Printf("WARN: %v; logging to stderr only", err)
	}
	defer appLogger.Close()
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Order Ledger (Database Adapter)
	ledger, err := sqlite.NewLedger(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize order ledger")
		log.Fatalf("FATAL: Failed to initialize order ledger: %v", err) // Also log to stderr
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing order ledger")
		}
	}()
	appLogger.Info(context.Background(), "Order ledger initialized")

	// 4. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.Global.APIKey,
		SecretKey:  cfg.Global.APISecret,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}
	appLogger.Info(context.Background(), "Binance client initialized")

	// 5. Initialize Pricing Engine
	engine, err := pricing.New(pricing.Config{
		Exchange:     binanceClient,
		Logger:       appLogger,
		Confirmer:    console.NewConfirmer(),
		FeePercent:   cfg.Global.FeePercent,
		ConfirmOrder: cfg.ConfirmOrder(),
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize pricing engine")
		log.Fatalf("FATAL: Failed to initialize pricing engine: %v", err)
	}
	appLogger.Info(context.Background(), "Pricing engine initialized")

	// 6. Initialize Application Service
	tradingService, err := app.NewTradingService(
		cfg,
		appLogger,
		binanceClient,
		ledger,
		engine,
		console.NewRenderer(),
	)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize trading service")
		log.Fatalf("FATAL: Failed to initialize trading service: %v", err)
	}
	appLogger.Info(context.Background(), "Trading service initialized")

	// 7. Start the Service
	if err := tradingService.Start(context.Background()); err != nil {
		appLogger.Error(context.Background(), err, "Trading service exited with error")
		log.Fatalf("FATAL: Trading service exited with error: %v", err)
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}
