package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/intent"
	"finsight/internal/metrics"
)

func newTestQueryService(t *testing.T) *QueryService {
	t.Helper()
	return NewQueryService(newTestMetricService(t), testLogger())
}

func TestAnswer_RevenueVsBudget(t *testing.T) {
	svc := newTestQueryService(t)

	answer, err := svc.Answer(context.Background(), "What was June 2025 revenue vs budget in USD?")
	require.NoError(t, err)

	assert.NotEmpty(t, answer.ID)
	assert.Equal(t, intent.RevenueVsBudget, answer.Intent)
	assert.Equal(t, "june 2025", answer.Period)

	result, ok := answer.Result.(metrics.RevenueVsBudget)
	require.True(t, ok)
	assert.Equal(t, 100000.0, result.ActualUSD)
	assert.Contains(t, answer.Text, "June 2025")
	assert.Contains(t, answer.Text, "over")
}

func TestAnswer_CashRunway(t *testing.T) {
	svc := newTestQueryService(t)

	answer, err := svc.Answer(context.Background(), "What is our cash runway?")
	require.NoError(t, err)

	assert.Equal(t, intent.CashRunway, answer.Intent)
	assert.Contains(t, answer.Text, "unlimited")
}

func TestAnswer_GrossMarginTrend(t *testing.T) {
	svc := newTestQueryService(t)

	answer, err := svc.Answer(context.Background(), "Show gross margin trend for the last 3 months")
	require.NoError(t, err)

	assert.Equal(t, intent.GrossMarginTrend, answer.Intent)
	assert.Contains(t, answer.Text, "60.0%")
}

func TestAnswer_UnknownQuestion(t *testing.T) {
	svc := newTestQueryService(t)

	answer, err := svc.Answer(context.Background(), "What's the meaning of life?")
	require.NoError(t, err)

	assert.Equal(t, intent.Unknown, answer.Intent)
	assert.Nil(t, answer.Result)
	assert.Contains(t, answer.Text, "couldn't match")
}

func TestAnswer_DistinctIDs(t *testing.T) {
	svc := newTestQueryService(t)

	first, err := svc.Answer(context.Background(), "What is our EBITDA?")
	require.NoError(t, err)
	second, err := svc.Answer(context.Background(), "What is our EBITDA?")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestIntentOperations_CoverEveryKnownIntent(t *testing.T) {
	known := []string{
		intent.CashRunway, intent.RevenueVsBudget, intent.GrossMarginTrend,
		intent.EBITDA, intent.MonthlyComparison, intent.YearlyComparison,
		intent.PnLStatement, intent.BudgetVariance, intent.CostStructure,
		intent.QuarterlySummary, intent.BurnRate, intent.TopExpenses,
		intent.RevenueGrowth, intent.OpexBreakdown,
	}
	for _, name := range known {
		op, ok := intentOperations[name]
		assert.True(t, ok, name)
		assert.True(t, contains(Operations, op), op)
	}
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234567890, "$1.2B"},
		{3400000, "$3.4M"},
		{150000, "$150K"},
		{980, "$980"},
		{-2500000, "$-2.5M"},
		{0, "$0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCurrency(tt.in), tt.want)
	}
}

func TestSummarize_Fallback(t *testing.T) {
	text := summarize("mystery", struct{}{})
	assert.True(t, strings.Contains(text, "mystery"))
}
