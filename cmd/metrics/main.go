// Command metrics computes one named metric over the configured source
// tables and prints it as JSON, optionally writing it to a file, or dumps
// the normalized source tables as CSV.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"finsight/internal/config"
	"finsight/internal/dataset"
	"finsight/internal/exporter"
	"finsight/internal/infrastructure"
	"finsight/internal/services"
)

func main() {
	operation := flag.String("op", "", "metric operation to compute (see -list)")
	period := flag.String("period", "", "optional month, e.g. \"June 2025\"")
	lastN := flag.Int("last", 0, "trailing window length for trend operations")
	out := flag.String("out", "", "optional output file (.json or .csv)")
	dump := flag.String("dump", "", "dump a normalized source table as CSV: actuals|budget|fx|cash")
	list := flag.Bool("list", false, "list metric operations")
	flag.Parse()

	if *list {
		for _, op := range services.Operations {
			fmt.Println(op)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}

	ctx := context.Background()
	dataService := services.NewDataService(cfg.Data, logger)

	if *dump != "" {
		if err := dumpTable(ctx, dataService, *dump); err != nil {
			logger.Error("dump failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if *operation == "" {
		fmt.Fprintln(os.Stderr, "missing -op; use -list to see available operations")
		os.Exit(2)
	}

	metricService := services.NewMetricService(dataService, logger)
	result, err := metricService.Compute(ctx, *operation, *period, *lastN)
	if err != nil {
		logger.Error("metric computation failed",
			slog.String("operation", *operation),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *out != "" {
		write := exporter.WriteJSON
		if strings.EqualFold(filepath.Ext(*out), ".csv") {
			write = func(path, _ string, result interface{}) error {
				return exporter.WriteResultCSV(path, result)
			}
		}
		if err := write(*out, *operation, result); err != nil {
			logger.Error("failed to write output", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		logger.Error("failed to encode result", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func dumpTable(ctx context.Context, dataService *services.DataService, name string) error {
	tables, err := dataService.LoadTables(ctx)
	if err != nil {
		return err
	}
	var table *dataset.Table
	switch strings.ToLower(name) {
	case "actuals":
		table = tables.Actuals
	case "budget":
		table = tables.Budget
	case "fx":
		table = tables.FX
	case "cash":
		table = tables.Cash
	default:
		return fmt.Errorf("unknown table %q (want actuals, budget, fx, or cash)", name)
	}
	path := filepath.Join("out", name+"_normalized.csv")
	return exporter.WriteTableCSV(path, table)
}
