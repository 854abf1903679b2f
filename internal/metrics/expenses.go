package metrics

import (
	"sort"
	"time"

	"finsight/internal/classify"
	"finsight/pkg/contracts/domain"
)

// OpexBreakdown groups the month's opex rows by label, sorted descending by
// USD total. A nil period defaults to the latest month in the actuals.
func (e *Engine) OpexBreakdown(ds domain.Dataset, period *time.Time) []CategoryAmount {
	p := resolvePeriod(period, ds.Actuals)

	totals := make(map[string]float64)
	for _, r := range ds.Actuals {
		if r.Period.Equal(p) && classify.Matches(r, classify.CategoryOpex) {
			totals[r.Label()] += r.AmountUSD
		}
	}
	return sortedCategoryAmounts(totals)
}

// TopExpenses groups all COGS and opex rows by label across every period,
// with sum, mean and row count per label, sorted descending by total, and
// each label's share of total expenses. Sums and means are rounded to cents,
// shares to one decimal.
func (e *Engine) TopExpenses(ds domain.Dataset) []ExpenseCategory {
	type agg struct {
		sum   float64
		count int
	}
	byLabel := make(map[string]*agg)
	for _, r := range classify.SelectAny(ds.Actuals, classify.CategoryCOGS, classify.CategoryOpex) {
		a := byLabel[r.Label()]
		if a == nil {
			a = &agg{}
			byLabel[r.Label()] = a
		}
		a.sum += r.AmountUSD
		a.count++
	}

	categories := make([]ExpenseCategory, 0, len(byLabel))
	var total float64
	for label, a := range byLabel {
		categories = append(categories, ExpenseCategory{
			Category:    label,
			TotalAmount: round(a.sum, 2),
			AvgAmount:   round(a.sum/float64(a.count), 2),
			Count:       a.count,
		})
		total += round(a.sum, 2)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].TotalAmount != categories[j].TotalAmount {
			return categories[i].TotalAmount > categories[j].TotalAmount
		}
		return categories[i].Category < categories[j].Category
	})

	for i := range categories {
		if total != 0 {
			categories[i].PercentOfTotal = round(categories[i].TotalAmount/total*100, 1)
		}
	}

	return categories
}

// PnLStatement builds the structured P&L for one month: revenue, COGS,
// gross profit and margin, per-category opex lines, total opex and EBITDA.
// Expense amounts are presented negative.
func (e *Engine) PnLStatement(ds domain.Dataset, period *time.Time) PnLStatement {
	p := resolvePeriod(period, ds.Actuals)

	revenue := sumForPeriod(ds.Actuals, classify.CategoryRevenue, p)
	cogs := sumForPeriod(ds.Actuals, classify.CategoryCOGS, p)
	grossProfit := revenue - cogs
	var grossMarginPct float64
	if revenue > 0 {
		grossMarginPct = grossProfit / revenue * 100
	}

	opexByCategory := make(map[string]float64)
	for _, r := range ds.Actuals {
		if r.Period.Equal(p) && classify.Matches(r, classify.CategoryOpex) {
			opexByCategory[r.Label()] += r.AmountUSD
		}
	}
	var totalOpex float64
	for _, v := range opexByCategory {
		totalOpex += v
	}

	lines := []PnLLine{
		{LineItem: "Revenue", Amount: revenue, Type: "revenue"},
		{LineItem: "Cost of Goods Sold (COGS)", Amount: -cogs, Type: "cogs"},
		{LineItem: "Gross Profit", Amount: grossProfit, Type: "gross_profit"},
		{LineItem: "Gross Margin %", Amount: grossMarginPct, Type: "percentage"},
	}
	for _, label := range sortedKeys(opexByCategory) {
		lines = append(lines, PnLLine{LineItem: label, Amount: -opexByCategory[label], Type: "opex"})
	}
	lines = append(lines,
		PnLLine{LineItem: "Total Operating Expenses", Amount: -totalOpex, Type: "total_opex"},
		PnLLine{LineItem: "EBITDA", Amount: grossProfit - totalOpex, Type: "ebitda"},
	)

	return PnLStatement{
		PeriodLabel: p.Format(periodLabelFormat),
		Lines:       lines,
	}
}

// BudgetVariance compares actual to budget for revenue, COGS, opex, gross
// profit and EBITDA in one month. Variance percentage is zero when the
// budget is zero.
func (e *Engine) BudgetVariance(ds domain.Dataset, period *time.Time) BudgetVarianceReport {
	p := resolvePeriod(period, ds.Actuals)

	aRev := sumForPeriod(ds.Actuals, classify.CategoryRevenue, p)
	bRev := sumForPeriod(ds.Budget, classify.CategoryRevenue, p)
	aCOGS := sumForPeriod(ds.Actuals, classify.CategoryCOGS, p)
	bCOGS := sumForPeriod(ds.Budget, classify.CategoryCOGS, p)
	aOpex := sumForPeriod(ds.Actuals, classify.CategoryOpex, p)
	bOpex := sumForPeriod(ds.Budget, classify.CategoryOpex, p)

	rows := []VarianceRow{
		varianceRow("Revenue", aRev, bRev),
		varianceRow("COGS", aCOGS, bCOGS),
		varianceRow("Operating Expenses", aOpex, bOpex),
		varianceRow("Gross Profit", aRev-aCOGS, bRev-bCOGS),
		varianceRow("EBITDA", aRev-aCOGS-aOpex, bRev-bCOGS-bOpex),
	}

	return BudgetVarianceReport{
		PeriodLabel: p.Format(periodLabelFormat),
		Rows:        rows,
	}
}

func varianceRow(category string, actual, budget float64) VarianceRow {
	return VarianceRow{
		Category:    category,
		Actual:      actual,
		Budget:      budget,
		Variance:    actual - budget,
		VariancePct: pctChange(actual, budget),
	}
}

func sortedCategoryAmounts(totals map[string]float64) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(totals))
	for label, amount := range totals {
		out = append(out, CategoryAmount{Category: label, AmountUSD: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AmountUSD != out[j].AmountUSD {
			return out[i].AmountUSD > out[j].AmountUSD
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
