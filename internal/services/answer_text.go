package services

import (
	"fmt"
	"math"

	"finsight/internal/metrics"
)

// summarize renders a one-line textual answer for a metric result.
func summarize(intentName string, result interface{}) string {
	switch r := result.(type) {
	case metrics.RevenueVsBudget:
		variance := r.ActualUSD - r.BudgetUSD
		return fmt.Sprintf("%s revenue was %s vs a budget of %s (%s %s).",
			r.PeriodLabel, formatCurrency(r.ActualUSD), formatCurrency(r.BudgetUSD),
			formatCurrency(math.Abs(variance)), overUnder(variance))
	case metrics.CashRunway:
		if r.RunwayMonths.IsInf() {
			return fmt.Sprintf("Cash on hand is %s; the business is at or above break-even, so runway is unlimited.",
				formatCurrency(r.CashUSD))
		}
		return fmt.Sprintf("Cash on hand is %s, about %.1f months of runway at the current burn.",
			formatCurrency(r.CashUSD), float64(r.RunwayMonths))
	case []metrics.GrossMarginPoint:
		if len(r) == 0 {
			return "No gross margin data available."
		}
		last := r[len(r)-1]
		if last.GMPercent == nil {
			return fmt.Sprintf("Gross margin over the last %d months; the latest month has no revenue, so its margin is undefined.", len(r))
		}
		return fmt.Sprintf("Gross margin over the last %d months; latest is %.1f%%.", len(r), *last.GMPercent)
	case []metrics.EBITDAPoint:
		if len(r) == 0 {
			return "No EBITDA data available."
		}
		last := r[len(r)-1]
		return fmt.Sprintf("Latest EBITDA proxy is %s for %s.",
			formatCurrency(last.EBITDAProxyUSD), last.Period.Format("January 2006"))
	case []metrics.MonthlyComparisonRow:
		if len(r) < 2 {
			return "Not enough months of data for a month-over-month comparison."
		}
		latest := r[1]
		return fmt.Sprintf("%s revenue was %s (%+.1f%% month over month).",
			latest.Period.Format("January 2006"), formatCurrency(latest.Revenue),
			deref(latest.RevenueChangePct))
	case metrics.YearlyComparison:
		if len(r.Months) == 0 {
			return fmt.Sprintf("No %d data available for a year-over-year comparison.", r.PriorYear)
		}
		return fmt.Sprintf("Revenue by month, %d vs %d.", r.CurrentYear, r.PriorYear)
	case metrics.PnLStatement:
		return fmt.Sprintf("P&L statement for %s.", r.PeriodLabel)
	case metrics.BudgetVarianceReport:
		return fmt.Sprintf("Budget variance analysis for %s.", r.PeriodLabel)
	case []metrics.BurnRatePoint:
		if len(r) == 0 {
			return "No burn rate data available."
		}
		last := r[len(r)-1]
		return fmt.Sprintf("Latest monthly burn is %s (3-month average %s).",
			formatCurrency(last.BurnRate), formatCurrency(last.BurnRate3MAvg))
	case []metrics.RevenueGrowthPoint:
		if len(r) == 0 {
			return "No revenue data available."
		}
		last := r[len(r)-1]
		if last.MoMGrowthPct == nil {
			return fmt.Sprintf("Latest monthly revenue is %s.", formatCurrency(last.RevenueUSD))
		}
		return fmt.Sprintf("Latest monthly revenue is %s (%+.1f%% month over month).",
			formatCurrency(last.RevenueUSD), *last.MoMGrowthPct)
	case []metrics.ExpenseCategory:
		if len(r) == 0 {
			return "No expense data available."
		}
		return fmt.Sprintf("Largest expense category is %s at %s (%.1f%% of total expenses).",
			r[0].Category, formatCurrency(r[0].TotalAmount), r[0].PercentOfTotal)
	case []metrics.QuarterSummary:
		if len(r) == 0 {
			return "No quarterly data available."
		}
		last := r[len(r)-1]
		return fmt.Sprintf("%s revenue was %s with EBITDA of %s.",
			last.Quarter, formatCurrency(last.Revenue), formatCurrency(last.EBITDA))
	case []metrics.CategoryAmount:
		if len(r) == 0 {
			return "No opex recorded for that month."
		}
		return fmt.Sprintf("Largest opex category is %s at %s.",
			r[0].Category, formatCurrency(r[0].AmountUSD))
	default:
		return fmt.Sprintf("Computed %s.", intentName)
	}
}

// formatCurrency renders a USD value with a magnitude suffix: $1.2B, $3.4M,
// $150K, or $980.
func formatCurrency(value float64) string {
	abs := math.Abs(value)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("$%.1fB", value/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.1fM", value/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.0fK", value/1e3)
	default:
		return fmt.Sprintf("$%.0f", value)
	}
}

func overUnder(variance float64) string {
	if variance >= 0 {
		return "over"
	}
	return "under"
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
