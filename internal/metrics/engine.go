// Package metrics aggregates canonical financial records into derived
// metrics: budget comparisons, margin trends, burn and runway, growth and
// variance analyses, quarterly rollups and P&L statements.
//
// All inputs are assumed normalized and converted to USD. Division by zero
// in a percentage yields 0 everywhere except the gross margin trend, where
// zero revenue makes the margin undefined (null). That asymmetry is
// deliberate and covered by tests.
package metrics

import (
	"log/slog"
	"sort"
	"time"

	"finsight/internal/classify"
	"finsight/pkg/contracts/domain"
)

// periodLabelFormat renders a period as "June 2025".
const periodLabelFormat = "January 2006"

// Engine computes derived metrics over a converted dataset. All methods are
// pure over their inputs.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a metric engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger.With(slog.String("component", "metrics"))}
}

// sumForPeriod totals USD amounts of records in a category for one month.
func sumForPeriod(records []domain.Record, category classify.Category, period time.Time) float64 {
	var total float64
	for _, r := range records {
		if r.Period.Equal(period) && classify.Matches(r, category) {
			total += r.AmountUSD
		}
	}
	return total
}

// monthlyTotals groups a category's USD amounts by month.
func monthlyTotals(records []domain.Record, category classify.Category) map[time.Time]float64 {
	totals := make(map[time.Time]float64)
	for _, r := range records {
		if classify.Matches(r, category) {
			totals[r.Period] += r.AmountUSD
		}
	}
	return totals
}

// unionPeriods merges and sorts the period keys of several monthly series.
func unionPeriods(series ...map[time.Time]float64) []time.Time {
	seen := make(map[time.Time]bool)
	var out []time.Time
	for _, s := range series {
		for p := range s {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// resolvePeriod defaults an unspecified period to the latest month present
// in the actuals.
func resolvePeriod(period *time.Time, actuals []domain.Record) time.Time {
	if period != nil {
		return *period
	}
	return domain.LatestPeriod(actuals)
}

// pctChange returns (current-previous)/previous*100, or 0 when previous is
// zero.
func pctChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// rollingMean is the mean of the window ending at index i (inclusive) with a
// minimum of one observation.
func rollingMean(values []float64, i, window int) float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	var sum float64
	for _, v := range values[start : i+1] {
		sum += v
	}
	return sum / float64(i+1-start)
}

// rollingMeanSkipNil is like rollingMean over a nullable series, ignoring
// nil observations. Returns nil when the window holds none.
func rollingMeanSkipNil(values []*float64, i, window int) *float64 {
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	var sum float64
	var n int
	for _, v := range values[start : i+1] {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}

func round(v float64, decimals int) float64 {
	scale := 1.0
	for i := 0; i < decimals; i++ {
		scale *= 10
	}
	return float64(int64(v*scale+sign(v)*0.5)) / scale
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func ptr(v float64) *float64 { return &v }

func tail[T any](s []T, n int) []T {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
