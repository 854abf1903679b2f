package metrics

import (
	"encoding/json"
	"math"
	"time"
)

// Float is a float64 whose JSON form is null for NaN and infinities, which
// encoding/json otherwise refuses to marshal. Runway months use it because
// break-even burn makes runway infinite.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// IsInf reports whether the value is positive infinity.
func (f Float) IsInf() bool {
	return math.IsInf(float64(f), 1)
}

// RevenueVsBudget holds actual versus budgeted revenue for one month.
type RevenueVsBudget struct {
	ActualUSD   float64 `json:"actual_usd"`
	BudgetUSD   float64 `json:"budget_usd"`
	PeriodLabel string  `json:"period_label"`
}

// GrossMarginPoint is one month of the gross margin trend. GMPercent is nil
// when revenue for the month is zero; this diverges from the soft-zero
// convention used elsewhere and is intentional.
type GrossMarginPoint struct {
	Period     time.Time `json:"period"`
	RevenueUSD float64   `json:"revenue_usd"`
	COGSUSD    float64   `json:"cogs_usd"`
	GMPercent  *float64  `json:"gm_pct"`
}

// CategoryAmount is a label with its USD total, used for breakdowns.
type CategoryAmount struct {
	Category  string  `json:"category"`
	AmountUSD float64 `json:"amount_usd"`
}

// EBITDAPoint is one month of the EBITDA proxy series.
type EBITDAPoint struct {
	Period         time.Time `json:"period"`
	RevenueUSD     float64   `json:"revenue_usd"`
	COGSUSD        float64   `json:"cogs_usd"`
	OpexUSD        float64   `json:"opex_usd"`
	EBITDAProxyUSD float64   `json:"ebitda_proxy_usd"`
}

// CashRunway is the latest cash balance and the months of runway it buys.
// RunwayMonths is infinite at break-even or better.
type CashRunway struct {
	CashUSD      float64 `json:"cash_usd"`
	RunwayMonths Float   `json:"runway_months"`
}

// MonthlyComparisonRow is one of the two most recent months with
// month-over-month changes on the later row.
type MonthlyComparisonRow struct {
	Period           time.Time `json:"period"`
	Revenue          float64   `json:"revenue"`
	COGS             float64   `json:"cogs"`
	Opex             float64   `json:"opex"`
	GrossMarginPct   float64   `json:"gross_margin_pct"`
	EBITDA           float64   `json:"ebitda"`
	RevenueChangePct *float64  `json:"revenue_change,omitempty"`
	OpexChangePct    *float64  `json:"opex_change,omitempty"`
	EBITDAChangePct  *float64  `json:"ebitda_change,omitempty"`
	GMChangePts      *float64  `json:"gm_change,omitempty"`
}

// YearlyComparisonRow compares one calendar month's revenue across the
// current and prior year.
type YearlyComparisonRow struct {
	Month          int     `json:"month"`
	MonthName      string  `json:"month_name"`
	CurrentRevenue float64 `json:"current_revenue"`
	PriorRevenue   float64 `json:"prior_revenue"`
	YoYGrowthPct   float64 `json:"yoy_growth_pct"`
}

// YearlyComparison is a full-year revenue comparison. Months is empty when
// no prior-year data exists.
type YearlyComparison struct {
	CurrentYear int                   `json:"current_year"`
	PriorYear   int                   `json:"prior_year"`
	Months      []YearlyComparisonRow `json:"months"`
}

// PnLLine is one structured line of a monthly P&L statement. Expense lines
// carry negative amounts.
type PnLLine struct {
	LineItem string  `json:"line_item"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
}

// PnLStatement is the structured P&L for one month.
type PnLStatement struct {
	PeriodLabel string    `json:"period_label"`
	Lines       []PnLLine `json:"lines"`
}

// VarianceRow is actual versus budget for one P&L category.
type VarianceRow struct {
	Category    string  `json:"category"`
	Actual      float64 `json:"actual"`
	Budget      float64 `json:"budget"`
	Variance    float64 `json:"variance"`
	VariancePct float64 `json:"variance_pct"`
}

// BudgetVarianceReport is the full variance analysis for one month.
type BudgetVarianceReport struct {
	PeriodLabel string        `json:"period_label"`
	Rows        []VarianceRow `json:"rows"`
}

// BurnRatePoint is one month of the burn rate series. CashUSD is nil when no
// cash balance exists for the month; RunwayMonths is then undefined (null)
// unless burn is non-positive, in which case it is infinite.
type BurnRatePoint struct {
	Period        time.Time `json:"period"`
	Revenue       float64   `json:"revenue"`
	COGS          float64   `json:"cogs"`
	Opex          float64   `json:"opex"`
	TotalExpenses float64   `json:"total_expenses"`
	NetBurn       float64   `json:"net_burn"`
	BurnRate      float64   `json:"burn_rate"`
	BurnRate3MAvg float64   `json:"burn_rate_3m_avg"`
	CashUSD       *float64  `json:"cash_usd"`
	RunwayMonths  Float     `json:"months_runway"`
}

// RevenueGrowthPoint is one month of the revenue growth series. Growth
// percentages are nil where no earlier comparison value exists.
type RevenueGrowthPoint struct {
	Period       time.Time `json:"period"`
	RevenueUSD   float64   `json:"revenue_usd"`
	MoMGrowthPct *float64  `json:"mom_growth_pct"`
	YoYGrowthPct *float64  `json:"yoy_growth_pct"`
	Revenue3MAvg float64   `json:"revenue_3m_avg"`
	Growth3MAvg  *float64  `json:"growth_3m_avg"`
}

// ExpenseCategory is one expense label with aggregate statistics and its
// share of total expenses.
type ExpenseCategory struct {
	Category       string  `json:"category"`
	TotalAmount    float64 `json:"total_amount"`
	AvgAmount      float64 `json:"avg_amount"`
	Count          int     `json:"count"`
	PercentOfTotal float64 `json:"percentage_of_total"`
}

// QuarterSummary is one calendar quarter's rollup. QoQ growth fields are nil
// on the first quarter.
type QuarterSummary struct {
	Quarter          string   `json:"quarter"`
	Revenue          float64  `json:"revenue"`
	COGS             float64  `json:"cogs"`
	Opex             float64  `json:"opex"`
	GrossProfit      float64  `json:"gross_profit"`
	GrossMarginPct   float64  `json:"gross_margin_pct"`
	EBITDA           float64  `json:"ebitda"`
	EBITDAMarginPct  float64  `json:"ebitda_margin_pct"`
	RevenueQoQGrowth *float64 `json:"revenue_qoq_growth,omitempty"`
	EBITDAQoQGrowth  *float64 `json:"ebitda_qoq_growth,omitempty"`
}
