// Package services wires the normalization pipeline and metric engine into
// the operations the transport layer calls.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"finsight/internal/config"
	"finsight/internal/dataset"
	"finsight/internal/fx"
	"finsight/pkg/contracts/domain"
)

// SourceTables holds the four normalized source tables of one load.
type SourceTables struct {
	Actuals *dataset.Table
	Budget  *dataset.Table
	FX      *dataset.Table
	Cash    *dataset.Table
}

// DataService loads and normalizes the four source tables. Data is read
// fresh from disk on every call; nothing is cached and nothing is written
// back.
type DataService struct {
	cfg    config.DataConfig
	logger *slog.Logger
}

// NewDataService creates a data service over the configured file paths.
func NewDataService(cfg config.DataConfig, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "data_service")),
	}
}

// LoadTables reads all four source files in parallel and applies schema and
// period normalization to each.
func (s *DataService) LoadTables(ctx context.Context) (*SourceTables, error) {
	var tables SourceTables
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.loadOne(ctx, "actuals", s.cfg.ActualsPath())
		tables.Actuals = t
		return err
	})
	g.Go(func() error {
		t, err := s.loadOne(ctx, "budget", s.cfg.BudgetPath())
		tables.Budget = t
		return err
	})
	g.Go(func() error {
		t, err := s.loadOne(ctx, "fx", s.cfg.FXPath())
		tables.FX = t
		return err
	})
	g.Go(func() error {
		t, err := s.loadOne(ctx, "cash", s.cfg.CashPath())
		tables.Cash = t
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &tables, nil
}

func (s *DataService) loadOne(ctx context.Context, name, path string) (*dataset.Table, error) {
	table, err := dataset.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	table = dataset.NormalizeSchema(table)
	table, err = dataset.EnsurePeriod(table)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", name, err)
	}
	s.logger.DebugContext(ctx, "loaded source table",
		slog.String("table", name),
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)))
	return table, nil
}

// Load produces the converted dataset the metric engine computes over:
// every record set joined against the FX table and expressed in USD.
func (s *DataService) Load(ctx context.Context) (domain.Dataset, error) {
	tables, err := s.LoadTables(ctx)
	if err != nil {
		return domain.Dataset{}, err
	}

	actuals, err := fx.Convert(tables.Actuals, tables.FX)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("convert actuals: %w", err)
	}
	budget, err := fx.Convert(tables.Budget, tables.FX)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("convert budget: %w", err)
	}
	cash, err := fx.Convert(tables.Cash, tables.FX)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("convert cash: %w", err)
	}

	return domain.Dataset{
		Actuals: fx.Records(actuals),
		Budget:  fx.Records(budget),
		Cash:    fx.Records(cash),
	}, nil
}
