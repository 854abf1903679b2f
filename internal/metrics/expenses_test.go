package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/pkg/contracts/domain"
)

func TestOpexBreakdown(t *testing.T) {
	june := month(2025, time.June)
	ds := domain.Dataset{
		Actuals: []domain.Record{
			rec(june, "Opex:Payroll", 50000),
			rec(june, "Opex:Marketing", 15000),
			rec(june, "Opex:Marketing", 5000),
			rec(june, "Revenue", 100000),
			rec(month(2025, time.May), "Opex:Payroll", 999),
		},
	}

	got := newTestEngine().OpexBreakdown(ds, &june)
	require.Len(t, got, 2)

	assert.Equal(t, "Opex:Payroll", got[0].Category)
	assert.Equal(t, 50000.0, got[0].AmountUSD)
	assert.Equal(t, "Opex:Marketing", got[1].Category)
	assert.Equal(t, 20000.0, got[1].AmountUSD)
}

func TestOpexBreakdown_DefaultsToLatestPeriod(t *testing.T) {
	ds := domain.Dataset{
		Actuals: []domain.Record{
			rec(month(2025, time.May), "Opex:Payroll", 999),
			rec(month(2025, time.June), "Opex:Payroll", 50000),
		},
	}

	got := newTestEngine().OpexBreakdown(ds, nil)
	require.Len(t, got, 1)
	assert.Equal(t, 50000.0, got[0].AmountUSD)
}

func TestTopExpenses(t *testing.T) {
	ds := domain.Dataset{
		Actuals: []domain.Record{
			rec(month(2025, time.May), "Opex:Payroll", 50000),
			rec(month(2025, time.June), "Opex:Payroll", 50000),
			rec(month(2025, time.June), "COGS", 40000),
			rec(month(2025, time.June), "Opex:Marketing", 10000),
			rec(month(2025, time.June), "Revenue", 100000),
		},
	}

	got := newTestEngine().TopExpenses(ds)
	require.Len(t, got, 3)

	payroll := got[0]
	assert.Equal(t, "Opex:Payroll", payroll.Category)
	assert.Equal(t, 100000.0, payroll.TotalAmount)
	assert.Equal(t, 50000.0, payroll.AvgAmount)
	assert.Equal(t, 2, payroll.Count)
	assert.InDelta(t, 66.7, payroll.PercentOfTotal, 1e-9)

	assert.Equal(t, "COGS", got[1].Category)
	assert.InDelta(t, 26.7, got[1].PercentOfTotal, 1e-9)
	assert.Equal(t, "Opex:Marketing", got[2].Category)
	assert.InDelta(t, 6.7, got[2].PercentOfTotal, 1e-9)
}

func TestTopExpenses_Empty(t *testing.T) {
	assert.Empty(t, newTestEngine().TopExpenses(domain.Dataset{}))
}

func TestPnLStatement(t *testing.T) {
	june := month(2025, time.June)
	ds := domain.Dataset{
		Actuals: []domain.Record{
			rec(june, "Revenue", 100000),
			rec(june, "COGS", 40000),
			rec(june, "Opex:Marketing", 15000),
			rec(june, "Opex:Payroll", 25000),
		},
	}

	got := newTestEngine().PnLStatement(ds, &june)

	assert.Equal(t, "June 2025", got.PeriodLabel)
	require.Len(t, got.Lines, 8)

	assert.Equal(t, PnLLine{LineItem: "Revenue", Amount: 100000, Type: "revenue"}, got.Lines[0])
	assert.Equal(t, PnLLine{LineItem: "Cost of Goods Sold (COGS)", Amount: -40000, Type: "cogs"}, got.Lines[1])
	assert.Equal(t, PnLLine{LineItem: "Gross Profit", Amount: 60000, Type: "gross_profit"}, got.Lines[2])
	assert.Equal(t, "Gross Margin %", got.Lines[3].LineItem)
	assert.InDelta(t, 60.0, got.Lines[3].Amount, 1e-9)

	// Opex lines are alphabetical and negative.
	assert.Equal(t, PnLLine{LineItem: "Opex:Marketing", Amount: -15000, Type: "opex"}, got.Lines[4])
	assert.Equal(t, PnLLine{LineItem: "Opex:Payroll", Amount: -25000, Type: "opex"}, got.Lines[5])
	assert.Equal(t, PnLLine{LineItem: "Total Operating Expenses", Amount: -40000, Type: "total_opex"}, got.Lines[6])
	assert.Equal(t, PnLLine{LineItem: "EBITDA", Amount: 20000, Type: "ebitda"}, got.Lines[7])
}

func TestPnLStatement_ZeroRevenue(t *testing.T) {
	june := month(2025, time.June)
	ds := domain.Dataset{
		Actuals: []domain.Record{rec(june, "Opex:Payroll", 25000)},
	}

	got := newTestEngine().PnLStatement(ds, &june)

	assert.Equal(t, 0.0, got.Lines[3].Amount)
}

func TestBudgetVariance(t *testing.T) {
	june := month(2025, time.June)
	ds := domain.Dataset{
		Actuals: []domain.Record{
			rec(june, "Revenue", 110000),
			rec(june, "COGS", 44000),
			rec(june, "Opex:Payroll", 30000),
		},
		Budget: []domain.Record{
			rec(june, "Revenue", 100000),
			rec(june, "COGS", 40000),
			rec(june, "Opex:Payroll", 28000),
		},
	}

	got := newTestEngine().BudgetVariance(ds, &june)

	assert.Equal(t, "June 2025", got.PeriodLabel)
	require.Len(t, got.Rows, 5)

	revenue := got.Rows[0]
	assert.Equal(t, "Revenue", revenue.Category)
	assert.Equal(t, 10000.0, revenue.Variance)
	assert.InDelta(t, 10.0, revenue.VariancePct, 1e-9)

	gross := got.Rows[3]
	assert.Equal(t, "Gross Profit", gross.Category)
	assert.Equal(t, 66000.0, gross.Actual)
	assert.Equal(t, 60000.0, gross.Budget)

	ebitda := got.Rows[4]
	assert.Equal(t, "EBITDA", ebitda.Category)
	assert.Equal(t, 36000.0, ebitda.Actual)
	assert.Equal(t, 32000.0, ebitda.Budget)
}

func TestBudgetVariance_ZeroBudget(t *testing.T) {
	june := month(2025, time.June)
	ds := domain.Dataset{
		Actuals: []domain.Record{rec(june, "Revenue", 110000)},
	}

	got := newTestEngine().BudgetVariance(ds, &june)

	assert.Equal(t, 0.0, got.Rows[0].VariancePct)
	assert.Equal(t, 110000.0, got.Rows[0].Variance)
}
