package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"steamweb-prices/internal/config"
	"steamweb-prices/internal/export"
	"steamweb-prices/internal/models"
	"steamweb-prices/internal/prices"
	"steamweb-prices/internal/services/steamwebapi"

	"github.com/joho/godotenv"
)

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	game := flag.String("game", "", "game to export (cs2, dota2, rust, tf2)")
	currency := flag.String("currency", "", "upstream currency code")
	output := flag.String("out", "", "output file path")
	format := flag.String("format", "", "output format: csv or xlsx")
	full := flag.Bool("full", false, "export every column instead of the minimal projection")
	allGames := flag.Bool("all", false, "export all supported games into one table")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if *configFile != "" {
		if err := cfg.ApplyFile(*configFile); err != nil {
			log.Fatal(err)
		}
	}
	if *game != "" {
		cfg.Game = *game
	}
	if *currency != "" {
		cfg.Currency = *currency
	}
	if *output != "" {
		cfg.Output.Path = *output
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *full {
		cfg.Output.Full = true
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = fmt.Sprintf("steam_prices_%s.%s", time.Now().Format("2006-01-02"), cfg.Output.Format)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	client := steamwebapi.NewClient(cfg.APIKey)
	service := prices.NewService(cfg.APIKey, client)
	ctx := context.Background()

	games := []string{cfg.Game}
	if *allGames {
		games = prices.Games()
	}

	var rows []models.NormalizedItemRow
	for _, g := range games {
		result, err := service.GetPrices(ctx, prices.Options{
			Game:             g,
			Currency:         cfg.Currency,
			ReturnEverything: cfg.Output.Full,
		})
		if err != nil {
			log.Fatalf("fetching %s prices: %v", g, err)
		}
		rows = append(rows, result.Rows...)
		log.Printf("Fetched %d %s items", len(result.Rows), g)
	}

	if err := writeOutput(cfg, rows); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %d rows to %s", len(rows), cfg.Output.Path)
}

func writeOutput(cfg *config.Config, rows []models.NormalizedItemRow) error {
	if cfg.Output.Full {
		if cfg.Output.Format == "xlsx" {
			return export.WriteXLSX(cfg.Output.Path, rows)
		}
		return export.WriteCSV(cfg.Output.Path, rows)
	}

	minimal := make([]models.MinimalItemRow, len(rows))
	for i, r := range rows {
		minimal[i] = r.Minimal()
	}
	if cfg.Output.Format == "xlsx" {
		return export.WriteMinimalXLSX(cfg.Output.Path, minimal)
	}
	return export.WriteMinimalCSV(cfg.Output.Path, minimal)
}
