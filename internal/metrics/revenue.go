package metrics

import (
	"log/slog"
	"sort"
	"time"

	"finsight/internal/classify"
	"finsight/pkg/contracts/domain"
)

// RevenueVsBudget sums revenue-classified USD amounts in actuals and budget
// for the given month. A nil period defaults to the latest month present in
// the actuals.
func (e *Engine) RevenueVsBudget(ds domain.Dataset, period *time.Time) RevenueVsBudget {
	p := resolvePeriod(period, ds.Actuals)

	result := RevenueVsBudget{
		ActualUSD:   sumForPeriod(ds.Actuals, classify.CategoryRevenue, p),
		BudgetUSD:   sumForPeriod(ds.Budget, classify.CategoryRevenue, p),
		PeriodLabel: p.Format(periodLabelFormat),
	}

	e.logger.Debug("computed revenue vs budget",
		slog.String("period", result.PeriodLabel),
		slog.Float64("actual_usd", result.ActualUSD),
		slog.Float64("budget_usd", result.BudgetUSD))

	return result
}

// RevenueGrowthAnalysis builds the monthly revenue growth series:
// month-over-month growth, year-over-year growth grouped by calendar month,
// and 3-month rolling averages of revenue and growth. Returns the last 12
// months.
func (e *Engine) RevenueGrowthAnalysis(ds domain.Dataset) []RevenueGrowthPoint {
	monthly := monthlyTotals(ds.Actuals, classify.CategoryRevenue)
	periods := unionPeriods(monthly)

	revenues := make([]float64, len(periods))
	for i, p := range periods {
		revenues[i] = monthly[p]
	}

	// Month-over-month growth; the first month has no comparison value.
	mom := make([]*float64, len(periods))
	for i := 1; i < len(periods); i++ {
		mom[i] = ptr(pctChange(revenues[i], revenues[i-1]))
	}

	// Year-over-year growth: consecutive observations of the same calendar
	// month compared in chronological order.
	yoy := make([]*float64, len(periods))
	lastByMonth := make(map[time.Month]int)
	for i, p := range periods {
		if j, ok := lastByMonth[p.Month()]; ok {
			yoy[i] = ptr(pctChange(revenues[i], revenues[j]))
		}
		lastByMonth[p.Month()] = i
	}

	points := make([]RevenueGrowthPoint, len(periods))
	for i, p := range periods {
		points[i] = RevenueGrowthPoint{
			Period:       p,
			RevenueUSD:   revenues[i],
			MoMGrowthPct: mom[i],
			YoYGrowthPct: yoy[i],
			Revenue3MAvg: rollingMean(revenues, i, 3),
			Growth3MAvg:  rollingMeanSkipNil(mom, i, 3),
		}
	}

	return tail(points, 12)
}

// YearlyComparison compares revenue by calendar month between the latest
// year in the actuals and the year before it. Months is empty when no
// prior-year records exist.
func (e *Engine) YearlyComparison(ds domain.Dataset) YearlyComparison {
	years := make(map[int]bool)
	for _, r := range ds.Actuals {
		years[r.Period.Year()] = true
	}
	if len(years) == 0 {
		return YearlyComparison{}
	}

	var sorted []int
	for y := range years {
		sorted = append(sorted, y)
	}
	sort.Ints(sorted)
	currentYear := sorted[len(sorted)-1]
	priorYear := currentYear - 1

	result := YearlyComparison{CurrentYear: currentYear, PriorYear: priorYear}
	if !years[priorYear] {
		return result
	}

	for month := time.January; month <= time.December; month++ {
		var current, prior float64
		for _, r := range ds.Actuals {
			if r.Period.Month() != month || !classify.Matches(r, classify.CategoryRevenue) {
				continue
			}
			switch r.Period.Year() {
			case currentYear:
				current += r.AmountUSD
			case priorYear:
				prior += r.AmountUSD
			}
		}
		result.Months = append(result.Months, YearlyComparisonRow{
			Month:          int(month),
			MonthName:      month.String(),
			CurrentRevenue: current,
			PriorRevenue:   prior,
			YoYGrowthPct:   pctChange(current, prior),
		})
	}

	return result
}
