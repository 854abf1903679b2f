// Package intent classifies free-text questions into metric operations. The
// classifier is a priority-ordered list of keyword rules evaluated first
// match wins; there is no language understanding beyond phrase matching.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Intent names, each corresponding to a metric engine operation.
const (
	CashRunway        = "cash_runway"
	RevenueVsBudget   = "revenue_vs_budget"
	GrossMarginTrend  = "gm_trend"
	EBITDA            = "ebitda"
	MonthlyComparison = "monthly_comparison"
	YearlyComparison  = "yearly_comparison"
	PnLStatement      = "pnl_statement"
	BudgetVariance    = "budget_variance"
	CostStructure     = "cost_structure"
	QuarterlySummary  = "quarterly_summary"
	BurnRate          = "burn_rate"
	TopExpenses       = "top_expenses"
	RevenueGrowth     = "revenue_growth"
	OpexBreakdown     = "opex_breakdown"
	Unknown           = "unknown"
)

// Intent is a classified question: the operation to run plus any period
// phrase ("june 2025") or trailing-window length extracted from the text.
type Intent struct {
	Name   string
	Period string
	LastN  int
}

var (
	monthYearPattern = regexp.MustCompile(`(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\s+\d{4}`)
	lastNPattern     = regexp.MustCompile(`last\s+(\d+)\s+months?`)
)

type rule struct {
	match func(q string) bool
	build func(q string) Intent
}

// The cascade is ordered: earlier rules shadow later ones (for example
// "revenue vs budget" wins over the bare revenue fallback).
var rules = []rule{
	{
		match: func(q string) bool {
			return strings.Contains(q, "cash runway") ||
				(strings.Contains(q, "runway") && strings.Contains(q, "cash"))
		},
		build: func(q string) Intent { return Intent{Name: CashRunway} },
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "revenue") && strings.Contains(q, "budget")
		},
		build: func(q string) Intent { return Intent{Name: RevenueVsBudget, Period: extractMonth(q)} },
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "gross margin") &&
				(strings.Contains(q, "trend") || strings.Contains(q, "last"))
		},
		build: func(q string) Intent { return Intent{Name: GrossMarginTrend, LastN: extractLastN(q, 3)} },
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "ebitda") || strings.Contains(q, "earnings")
		},
		build: func(q string) Intent { return Intent{Name: EBITDA} },
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "month over month") || strings.Contains(q, "mom") ||
				strings.Contains(q, "monthly comparison")
		},
		build: func(q string) Intent { return Intent{Name: MonthlyComparison} },
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "year over year") || strings.Contains(q, "yoy") ||
				strings.Contains(q, "yearly comparison")
		},
		build: func(q string) Intent { return Intent{Name: YearlyComparison} },
	},
	{
		match: func(q string) bool {
			return (strings.Contains(q, "profit and loss") || strings.Contains(q, "p&l") ||
				strings.Contains(q, "income statement")) && !strings.Contains(q, "trend")
		},
		build: func(q string) Intent { return Intent{Name: PnLStatement, Period: extractMonth(q)} },
	},
	{
		match: func(q string) bool {
			return (strings.Contains(q, "variance") || strings.Contains(q, "vs budget")) &&
				!strings.Contains(q, "revenue")
		},
		build: func(q string) Intent { return Intent{Name: BudgetVariance, Period: extractMonth(q)} },
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "cost structure") || strings.Contains(q, "cost breakdown") ||
				strings.Contains(q, "cost analysis")
		},
		build: func(q string) Intent { return Intent{Name: CostStructure} },
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "quarterly") || strings.Contains(q, "quarter")
		},
		build: func(q string) Intent { return Intent{Name: QuarterlySummary} },
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "burn rate") || strings.Contains(q, "monthly burn") ||
				strings.Contains(q, "spending rate")
		},
		build: func(q string) Intent { return Intent{Name: BurnRate} },
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "top expenses") || strings.Contains(q, "biggest costs") ||
				strings.Contains(q, "largest expenses")
		},
		build: func(q string) Intent { return Intent{Name: TopExpenses} },
	},
	{
		match: func(q string) bool {
			return strings.Contains(q, "revenue growth") || strings.Contains(q, "growth rate") ||
				strings.Contains(q, "revenue trend")
		},
		build: func(q string) Intent { return Intent{Name: RevenueGrowth} },
	},
	{
		match: func(q string) bool {
			return (strings.Contains(q, "opex") || strings.Contains(q, "operating expense")) &&
				(strings.Contains(q, "breakdown") || strings.Contains(q, "by category"))
		},
		build: func(q string) Intent { return Intent{Name: OpexBreakdown, Period: extractMonth(q)} },
	},
	{
		// Bare revenue fallback.
		match: func(q string) bool { return strings.Contains(q, "revenue") },
		build: func(q string) Intent { return Intent{Name: RevenueGrowth} },
	},
}

// Classify maps a question to an intent. Matching is case-insensitive.
func Classify(question string) Intent {
	q := strings.ToLower(strings.TrimSpace(question))
	for _, r := range rules {
		if r.match(q) {
			return r.build(q)
		}
	}
	return Intent{Name: Unknown}
}

// extractMonth pulls a month-and-year phrase like "june 2025" out of the
// question, or returns empty.
func extractMonth(q string) string {
	return monthYearPattern.FindString(q)
}

// extractLastN pulls the N out of "last N months", defaulting when absent.
func extractLastN(q string, fallback int) int {
	m := lastNPattern.FindStringSubmatch(q)
	if m == nil {
		return fallback
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
