// Dumps recent 1-minute klines for a symbol to CSV, using the same client
// configuration as the bot. Handy for eyeballing the moving-average guard's
// inputs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"gridbot/config"
	"gridbot/internal/adapters/binanceclient"
	"gridbot/internal/adapters/logger"
	"gridbot/internal/utils"
)

func main() {
	symbol := flag.String("symbol", "BTCUSDT", "trading symbol to fetch")
	limit := flag.Int("limit", 500, "number of 1m klines to fetch")
	out := flag.String("out", "", "output CSV path (default <symbol>_1m.csv)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)

	client, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.Global.APIKey,
		SecretKey:  cfg.Global.APISecret,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	klines, err := client.GetKlines(context.Background(), *symbol, "1m", *limit)
	if err != nil {
		log.Fatalf("Error fetching klines: %v", err)
	}
	appLogger.Info(context.Background(), "Fetched klines", map[string]interface{}{"symbol": *symbol, "count": len(klines)})

	filename := *out
	if filename == "" {
		filename = fmt.Sprintf("%s_1m.csv", *symbol)
	}
	if err := utils.WriteKlinesToCSV(klines, filename); err != nil {
		log.Fatalf("Error writing CSV: %v", err)
	}
	appLogger.Info(context.Background(), "Saved klines", map[string]interface{}{"filename": filename})
}
