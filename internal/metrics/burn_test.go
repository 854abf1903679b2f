package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/pkg/contracts/domain"
)

func cashRec(period time.Time, usd float64) domain.Record {
	return domain.Record{Period: period, Account: "Cash", AmountUSD: usd}
}

func burningDataset(cash float64) domain.Dataset {
	return domain.Dataset{
		Actuals: []domain.Record{
			rec(month(2025, time.April), "Revenue", 50000),
			rec(month(2025, time.April), "Opex:Payroll", 80000),
			rec(month(2025, time.May), "Revenue", 50000),
			rec(month(2025, time.May), "Opex:Payroll", 80000),
			rec(month(2025, time.June), "Revenue", 50000),
			rec(month(2025, time.June), "Opex:Payroll", 80000),
		},
		Cash: []domain.Record{cashRec(month(2025, time.June), cash)},
	}
}

func TestCashRunwayMonths(t *testing.T) {
	got := newTestEngine().CashRunwayMonths(burningDataset(300000))

	// Burning 30k a month with 300k in the bank.
	assert.Equal(t, 300000.0, got.CashUSD)
	assert.InDelta(t, 10.0, float64(got.RunwayMonths), 1e-9)
}

func TestCashRunwayMonths_InfiniteWhenProfitable(t *testing.T) {
	ds := domain.Dataset{
		Actuals: []domain.Record{
			rec(month(2025, time.April), "Revenue", 100000),
			rec(month(2025, time.April), "Opex:Payroll", 40000),
			rec(month(2025, time.May), "Revenue", 100000),
			rec(month(2025, time.May), "Opex:Payroll", 40000),
			rec(month(2025, time.June), "Revenue", 100000),
			rec(month(2025, time.June), "Opex:Payroll", 40000),
		},
		Cash: []domain.Record{cashRec(month(2025, time.June), 5000)},
	}

	got := newTestEngine().CashRunwayMonths(ds)

	assert.True(t, got.RunwayMonths.IsInf())
}

func TestCashRunwayMonths_EmptyActuals(t *testing.T) {
	got := newTestEngine().CashRunwayMonths(domain.Dataset{
		Cash: []domain.Record{cashRec(month(2025, time.June), 5000)},
	})

	assert.True(t, got.RunwayMonths.IsInf())
}

func TestCashRunwayMonths_MonotonicInCash(t *testing.T) {
	lower := newTestEngine().CashRunwayMonths(burningDataset(100000))
	higher := newTestEngine().CashRunwayMonths(burningDataset(200000))

	assert.Greater(t, float64(higher.RunwayMonths), float64(lower.RunwayMonths))
}

func TestLatestCashBalance(t *testing.T) {
	cash := []domain.Record{
		cashRec(month(2025, time.May), 100),
		cashRec(month(2025, time.June), 200),
		cashRec(month(2025, time.June), 300),
		cashRec(month(2025, time.April), 400),
	}

	// Ties on the latest period resolve to the later row.
	assert.Equal(t, 300.0, latestCashBalance(cash))
	assert.Equal(t, 0.0, latestCashBalance(nil))
}

func TestBurnRateAnalysis(t *testing.T) {
	ds := domain.Dataset{
		Actuals: []domain.Record{
			rec(month(2025, time.May), "Revenue", 50000),
			rec(month(2025, time.May), "COGS", 20000),
			rec(month(2025, time.May), "Opex:Payroll", 60000),
			rec(month(2025, time.June), "Revenue", 90000),
			rec(month(2025, time.June), "COGS", 20000),
			rec(month(2025, time.June), "Opex:Payroll", 60000),
		},
		Cash: []domain.Record{
			cashRec(month(2025, time.May), 120000),
			cashRec(month(2025, time.June), 90000),
		},
	}

	got := newTestEngine().BurnRateAnalysis(ds)
	require.Len(t, got, 2)

	may := got[0]
	assert.Equal(t, 80000.0, may.TotalExpenses)
	assert.Equal(t, 30000.0, may.NetBurn)
	assert.Equal(t, 30000.0, may.BurnRate)
	require.NotNil(t, may.CashUSD)
	assert.Equal(t, 120000.0, *may.CashUSD)
	assert.InDelta(t, 4.0, float64(may.RunwayMonths), 1e-9)

	june := got[1]
	// Revenue exceeds expenses: negative net burn, burn rate floored at zero.
	assert.Equal(t, -10000.0, june.NetBurn)
	assert.Equal(t, 0.0, june.BurnRate)
	assert.InDelta(t, 15000.0, june.BurnRate3MAvg, 1e-9)
	assert.InDelta(t, 6.0, float64(june.RunwayMonths), 1e-9)
}

func TestBurnRateAnalysis_NoCashOnRecord(t *testing.T) {
	ds := domain.Dataset{
		Actuals: []domain.Record{
			rec(month(2025, time.June), "Opex:Payroll", 60000),
		},
	}

	got := newTestEngine().BurnRateAnalysis(ds)
	require.Len(t, got, 1)

	assert.Nil(t, got[0].CashUSD)
	assert.True(t, math.IsNaN(float64(got[0].RunwayMonths)))
}

func TestBurnRateAnalysis_ProfitableMonthHasInfiniteRunway(t *testing.T) {
	ds := domain.Dataset{
		Actuals: []domain.Record{
			rec(month(2025, time.June), "Revenue", 100000),
			rec(month(2025, time.June), "Opex:Payroll", 40000),
		},
	}

	got := newTestEngine().BurnRateAnalysis(ds)
	require.Len(t, got, 1)

	assert.True(t, got[0].RunwayMonths.IsInf())
}

func TestBurnRateAnalysis_TailsToTwelveMonths(t *testing.T) {
	var records []domain.Record
	start := month(2024, time.January)
	for i := 0; i < 18; i++ {
		records = append(records, rec(start.AddDate(0, i, 0), "Opex:Payroll", 1000))
	}

	got := newTestEngine().BurnRateAnalysis(domain.Dataset{Actuals: records})
	require.Len(t, got, 12)
	assert.Equal(t, month(2024, time.July), got[0].Period)
	assert.Equal(t, month(2025, time.June), got[11].Period)
}
