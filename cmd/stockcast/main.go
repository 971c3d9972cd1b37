// cmd/stockcast/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/warely/stockcast/internal/forecast"
	"github.com/warely/stockcast/internal/ingest"
)

func newItemsFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "items",
		Usage:    "Path to the inventory items CSV",
		Required: true,
		EnvVars:  []string{"ITEMS_CSV"},
	}
}

func newTransactionsFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "transactions",
		Usage:    "Path to the transactions CSV",
		Required: true,
		EnvVars:  []string{"TRANSACTIONS_CSV"},
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "stockcast",
		Usage: "Inventory demand forecasting from transaction snapshots",
		Commands: []*cli.Command{
			{
				Name:  "predict",
				Usage: "Generate restock predictions from CSV snapshots",
				Flags: []cli.Flag{
					newItemsFlag(),
					newTransactionsFlag(),
					&cli.IntFlag{
						Name:  "window-days",
						Usage: "Analysis window in days",
						Value: forecast.DefaultWindowDays,
					},
					&cli.IntFlag{
						Name:  "min-transactions",
						Usage: "Minimum outgoing transactions per item",
						Value: forecast.DefaultMinTransactions,
					},
				},
				Action: runPredict,
			},
			{
				Name:  "sufficiency",
				Usage: "Report whether the transaction history is deep enough to forecast",
				Flags: []cli.Flag{
					newTransactionsFlag(),
				},
				Action: runSufficiency,
			},
			{
				Name:  "rankings",
				Usage: "Rank items as best sellers or slow movers",
				Flags: []cli.Flag{
					newItemsFlag(),
					newTransactionsFlag(),
					&cli.StringFlag{
						Name:  "view",
						Usage: "Ranking view: best_sellers or slow_movers",
						Value: "best_sellers",
					},
				},
				Action: runRankings,
			},
			{
				Name:  "seed",
				Usage: "Load CSV snapshots into the database",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newWarehouseFlag(),
					newItemsFlag(),
					newTransactionsFlag(),
				},
				Action: runSeed,
			},
			{
				Name:  "export",
				Usage: "Publish a prediction snapshot to object storage",
				Flags: []cli.Flag{
					newWarehouseFlag(),
				},
				Action: runExport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runPredict(c *cli.Context) error {
	items, err := ingest.ReadItemsCSV(c.String("items"))
	if err != nil {
		return err
	}
	records, err := ingest.ReadTransactionsCSV(c.String("transactions"))
	if err != nil {
		return err
	}

	predictions := forecast.NewEngine().GeneratePredictions(items, records, forecast.Options{
		WindowDays:      c.Int("window-days"),
		MinTransactions: c.Int("min-transactions"),
	})
	return printJSON(predictions)
}

func runSufficiency(c *cli.Context) error {
	records, err := ingest.ReadTransactionsCSV(c.String("transactions"))
	if err != nil {
		return err
	}

	txns := forecast.Normalize(records)
	return printJSON(forecast.NewEngine().CheckDataSufficiency(txns))
}

func runRankings(c *cli.Context) error {
	items, err := ingest.ReadItemsCSV(c.String("items"))
	if err != nil {
		return err
	}
	records, err := ingest.ReadTransactionsCSV(c.String("transactions"))
	if err != nil {
		return err
	}
	txns := forecast.Normalize(records)

	switch view := c.String("view"); view {
	case "best_sellers":
		return printJSON(forecast.BestSellers(items, txns))
	case "slow_movers":
		return printJSON(forecast.SlowMovers(items, txns))
	default:
		return fmt.Errorf("unknown view %q, expected best_sellers or slow_movers", view)
	}
}
