package metrics

import (
	"fmt"
	"sort"

	"finsight/internal/classify"
	"finsight/pkg/contracts/domain"
)

// GrossMarginTrend returns per-month revenue and COGS with the gross margin
// percentage for the last n months, ordered chronologically. The margin is
// undefined (nil) for months with zero revenue.
func (e *Engine) GrossMarginTrend(ds domain.Dataset, lastN int) []GrossMarginPoint {
	if lastN <= 0 {
		lastN = 3
	}

	revenue := monthlyTotals(ds.Actuals, classify.CategoryRevenue)
	cogs := monthlyTotals(ds.Actuals, classify.CategoryCOGS)
	periods := unionPeriods(revenue, cogs)

	points := make([]GrossMarginPoint, len(periods))
	for i, p := range periods {
		point := GrossMarginPoint{
			Period:     p,
			RevenueUSD: revenue[p],
			COGSUSD:    cogs[p],
		}
		if point.RevenueUSD != 0 {
			point.GMPercent = ptr((point.RevenueUSD - point.COGSUSD) / point.RevenueUSD * 100)
		}
		points[i] = point
	}

	return tail(points, lastN)
}

// EBITDAProxy computes revenue - COGS - opex for every month present in the
// actuals, with missing category sums defaulting to zero.
func (e *Engine) EBITDAProxy(ds domain.Dataset) []EBITDAPoint {
	revenue := monthlyTotals(ds.Actuals, classify.CategoryRevenue)
	cogs := monthlyTotals(ds.Actuals, classify.CategoryCOGS)
	opex := monthlyTotals(ds.Actuals, classify.CategoryOpex)

	points := make([]EBITDAPoint, 0)
	for _, p := range domain.Periods(ds.Actuals) {
		points = append(points, EBITDAPoint{
			Period:         p,
			RevenueUSD:     revenue[p],
			COGSUSD:        cogs[p],
			OpexUSD:        opex[p],
			EBITDAProxyUSD: revenue[p] - cogs[p] - opex[p],
		})
	}
	return points
}

// MonthlyComparison returns the last two months' key metrics with
// month-over-month changes on the later row. Fewer than two months yields an
// empty result.
func (e *Engine) MonthlyComparison(ds domain.Dataset) []MonthlyComparisonRow {
	periods := domain.Periods(ds.Actuals)
	if len(periods) < 2 {
		return nil
	}
	periods = periods[len(periods)-2:]

	rows := make([]MonthlyComparisonRow, 2)
	for i, p := range periods {
		row := MonthlyComparisonRow{
			Period:  p,
			Revenue: sumForPeriod(ds.Actuals, classify.CategoryRevenue, p),
			COGS:    sumForPeriod(ds.Actuals, classify.CategoryCOGS, p),
			Opex:    sumForPeriod(ds.Actuals, classify.CategoryOpex, p),
		}
		if row.Revenue > 0 {
			row.GrossMarginPct = (row.Revenue - row.COGS) / row.Revenue * 100
		}
		row.EBITDA = row.Revenue - row.COGS - row.Opex
		rows[i] = row
	}

	rows[1].RevenueChangePct = ptr(pctChange(rows[1].Revenue, rows[0].Revenue))
	rows[1].OpexChangePct = ptr(pctChange(rows[1].Opex, rows[0].Opex))
	rows[1].EBITDAChangePct = ptr(pctChange(rows[1].EBITDA, rows[0].EBITDA))
	rows[1].GMChangePts = ptr(rows[1].GrossMarginPct - rows[0].GrossMarginPct)

	return rows
}

// quarterKey identifies a calendar quarter.
type quarterKey struct {
	year    int
	quarter int
}

func (q quarterKey) String() string {
	return fmt.Sprintf("%dQ%d", q.year, q.quarter)
}

// QuarterlySummary rolls monthly actuals up into calendar quarters with
// margins and, when at least two quarters exist, quarter-over-quarter growth
// for revenue and EBITDA.
func (e *Engine) QuarterlySummary(ds domain.Dataset) []QuarterSummary {
	type totals struct {
		revenue, cogs, opex float64
	}
	byQuarter := make(map[quarterKey]*totals)
	for _, r := range ds.Actuals {
		key := quarterKey{r.Period.Year(), (int(r.Period.Month())-1)/3 + 1}
		t := byQuarter[key]
		if t == nil {
			t = &totals{}
			byQuarter[key] = t
		}
		// Predicates are independent; a label matching two categories counts
		// in both.
		if classify.Matches(r, classify.CategoryRevenue) {
			t.revenue += r.AmountUSD
		}
		if classify.Matches(r, classify.CategoryCOGS) {
			t.cogs += r.AmountUSD
		}
		if classify.Matches(r, classify.CategoryOpex) {
			t.opex += r.AmountUSD
		}
	}

	keys := make([]quarterKey, 0, len(byQuarter))
	for k := range byQuarter {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].quarter < keys[j].quarter
	})

	summaries := make([]QuarterSummary, len(keys))
	for i, k := range keys {
		t := byQuarter[k]
		s := QuarterSummary{
			Quarter:     k.String(),
			Revenue:     t.revenue,
			COGS:        t.cogs,
			Opex:        t.opex,
			GrossProfit: t.revenue - t.cogs,
			EBITDA:      t.revenue - t.cogs - t.opex,
		}
		if s.Revenue > 0 {
			s.GrossMarginPct = s.GrossProfit / s.Revenue * 100
			s.EBITDAMarginPct = s.EBITDA / s.Revenue * 100
		}
		summaries[i] = s
	}

	if len(summaries) > 1 {
		for i := 1; i < len(summaries); i++ {
			summaries[i].RevenueQoQGrowth = ptr(pctChange(summaries[i].Revenue, summaries[i-1].Revenue))
			summaries[i].EBITDAQoQGrowth = ptr(pctChange(summaries[i].EBITDA, summaries[i-1].EBITDA))
		}
	}

	return summaries
}
