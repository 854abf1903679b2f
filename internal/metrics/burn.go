package metrics

import (
	"log/slog"
	"math"
	"time"

	"finsight/internal/classify"
	"finsight/pkg/contracts/domain"
)

// CashRunwayMonths divides the latest cash balance by the average net burn
// of the last three months. Net burn is the negated EBITDA proxy. Runway is
// infinite when the average burn is zero or negative, regardless of the cash
// balance.
func (e *Engine) CashRunwayMonths(ds domain.Dataset) CashRunway {
	ebitda := e.EBITDAProxy(ds)
	last3 := tail(ebitda, 3)

	var avgBurn float64
	if len(last3) > 0 {
		var sum float64
		for _, p := range last3 {
			sum += -p.EBITDAProxyUSD
		}
		avgBurn = sum / float64(len(last3))
	}

	cash := latestCashBalance(ds.Cash)

	result := CashRunway{CashUSD: cash}
	if len(last3) == 0 || avgBurn <= 0 {
		result.RunwayMonths = Float(math.Inf(1))
	} else {
		result.RunwayMonths = Float(cash / avgBurn)
	}

	e.logger.Debug("computed cash runway",
		slog.Float64("cash_usd", cash),
		slog.Float64("avg_burn", avgBurn))

	return result
}

// latestCashBalance returns the USD amount of the chronologically last cash
// record. Ties on period resolve to the later row in file order.
func latestCashBalance(cash []domain.Record) float64 {
	var balance float64
	var latest time.Time
	found := false
	for _, r := range cash {
		if !found || !r.Period.Before(latest) {
			latest = r.Period
			balance = r.AmountUSD
			found = true
		}
	}
	return balance
}

// BurnRateAnalysis builds the monthly burn series: revenue, COGS and opex
// outer-joined per month with missing sums as zero, net burn floored at zero
// for the burn rate, a 3-month rolling average, and per-month runway against
// that month's cash balance. Returns the last 12 months.
func (e *Engine) BurnRateAnalysis(ds domain.Dataset) []BurnRatePoint {
	revenue := monthlyTotals(ds.Actuals, classify.CategoryRevenue)
	cogs := monthlyTotals(ds.Actuals, classify.CategoryCOGS)
	opex := monthlyTotals(ds.Actuals, classify.CategoryOpex)
	periods := unionPeriods(revenue, cogs, opex)

	cashByPeriod := make(map[time.Time]float64)
	cashSeen := make(map[time.Time]bool)
	for _, r := range ds.Cash {
		cashByPeriod[r.Period] += r.AmountUSD
		cashSeen[r.Period] = true
	}

	burnRates := make([]float64, len(periods))
	points := make([]BurnRatePoint, len(periods))
	for i, p := range periods {
		point := BurnRatePoint{
			Period:  p,
			Revenue: revenue[p],
			COGS:    cogs[p],
			Opex:    opex[p],
		}
		point.TotalExpenses = point.COGS + point.Opex
		point.NetBurn = point.TotalExpenses - point.Revenue
		// Negative burn is profit, not shown as negative burn.
		if point.NetBurn > 0 {
			point.BurnRate = point.NetBurn
		}
		burnRates[i] = point.BurnRate
		point.BurnRate3MAvg = rollingMean(burnRates, i, 3)

		if cashSeen[p] {
			point.CashUSD = ptr(cashByPeriod[p])
		}
		point.RunwayMonths = runwayFor(point.CashUSD, point.BurnRate3MAvg)

		points[i] = point
	}

	return tail(points, 12)
}

// runwayFor computes months of runway: infinite at break-even or better,
// undefined (NaN) when burning with no cash balance on record.
func runwayFor(cash *float64, avgBurn float64) Float {
	if avgBurn <= 0 {
		return Float(math.Inf(1))
	}
	if cash == nil {
		return Float(math.NaN())
	}
	return Float(*cash / avgBurn)
}
