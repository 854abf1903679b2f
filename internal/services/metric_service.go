package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finsight/internal/dataset"
	apperrors "finsight/internal/errors"
	"finsight/internal/metrics"
)

// Metric operation names as exposed to callers.
const (
	OpRevenueVsBudget   = "revenue_vs_budget"
	OpGrossMarginTrend  = "gross_margin_trend"
	OpOpexBreakdown     = "opex_breakdown"
	OpEBITDAProxy       = "ebitda_proxy"
	OpCashRunwayMonths  = "cash_runway_months"
	OpMonthlyComparison = "monthly_comparison"
	OpYearlyComparison  = "yearly_comparison"
	OpPnLStatement      = "pnl_statement"
	OpBudgetVariance    = "budget_variance_analysis"
	OpBurnRate          = "burn_rate_analysis"
	OpRevenueGrowth     = "revenue_growth_analysis"
	OpTopExpenses       = "top_expenses_analysis"
	OpQuarterlySummary  = "quarterly_summary"
)

// Operations lists every metric operation name.
var Operations = []string{
	OpRevenueVsBudget, OpGrossMarginTrend, OpOpexBreakdown, OpEBITDAProxy,
	OpCashRunwayMonths, OpMonthlyComparison, OpYearlyComparison, OpPnLStatement,
	OpBudgetVariance, OpBurnRate, OpRevenueGrowth, OpTopExpenses,
	OpQuarterlySummary,
}

// MetricService exposes the metric engine operations by name. Every call
// reloads the source files so results always reflect what is on disk.
type MetricService struct {
	data   *DataService
	engine *metrics.Engine
	logger *slog.Logger
}

// NewMetricService creates a metric service.
func NewMetricService(data *DataService, logger *slog.Logger) *MetricService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricService{
		data:   data,
		engine: metrics.NewEngine(logger),
		logger: logger.With(slog.String("component", "metric_service")),
	}
}

// Compute runs one named operation. periodText is an optional month phrase
// like "June 2025"; lastN bounds trailing-window operations and defaults
// per operation when zero.
func (s *MetricService) Compute(ctx context.Context, operation, periodText string, lastN int) (interface{}, error) {
	period, err := parseOptionalPeriod(periodText)
	if err != nil {
		return nil, err
	}

	ds, err := s.data.Load(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "computing metric",
		slog.String("operation", operation),
		slog.String("period", periodText),
		slog.Int("actual_records", len(ds.Actuals)))

	switch operation {
	case OpRevenueVsBudget:
		return s.engine.RevenueVsBudget(ds, period), nil
	case OpGrossMarginTrend:
		return s.engine.GrossMarginTrend(ds, lastN), nil
	case OpOpexBreakdown:
		return s.engine.OpexBreakdown(ds, period), nil
	case OpEBITDAProxy:
		return s.engine.EBITDAProxy(ds), nil
	case OpCashRunwayMonths:
		return s.engine.CashRunwayMonths(ds), nil
	case OpMonthlyComparison:
		return s.engine.MonthlyComparison(ds), nil
	case OpYearlyComparison:
		return s.engine.YearlyComparison(ds), nil
	case OpPnLStatement:
		return s.engine.PnLStatement(ds, period), nil
	case OpBudgetVariance:
		return s.engine.BudgetVariance(ds, period), nil
	case OpBurnRate:
		return s.engine.BurnRateAnalysis(ds), nil
	case OpRevenueGrowth:
		return s.engine.RevenueGrowthAnalysis(ds), nil
	case OpTopExpenses:
		return s.engine.TopExpenses(ds), nil
	case OpQuarterlySummary:
		return s.engine.QuarterlySummary(ds), nil
	default:
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("unknown metric operation %q", operation))
	}
}

func parseOptionalPeriod(text string) (*time.Time, error) {
	if text == "" {
		return nil, nil
	}
	p, err := dataset.ParsePeriodText(text)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
