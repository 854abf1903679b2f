package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"finsight/internal/intent"
)

// Answer is the response to one natural-language question: the classified
// intent, a one-line textual summary, and the full metric result.
type Answer struct {
	ID       string      `json:"id"`
	Question string      `json:"question"`
	Intent   string      `json:"intent"`
	Period   string      `json:"period,omitempty"`
	Text     string      `json:"text"`
	Result   interface{} `json:"result,omitempty"`
}

// QueryService answers free-text questions by classifying them into metric
// operations and summarizing the results. It keeps no state between calls.
type QueryService struct {
	metrics *MetricService
	logger  *slog.Logger
}

// NewQueryService creates a query service.
func NewQueryService(metrics *MetricService, logger *slog.Logger) *QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{
		metrics: metrics,
		logger:  logger.With(slog.String("component", "query_service")),
	}
}

// intentOperations maps intent names onto metric operations. Intents with
// no entry have no computable metric.
var intentOperations = map[string]string{
	intent.CashRunway:        OpCashRunwayMonths,
	intent.RevenueVsBudget:   OpRevenueVsBudget,
	intent.GrossMarginTrend:  OpGrossMarginTrend,
	intent.EBITDA:            OpEBITDAProxy,
	intent.MonthlyComparison: OpMonthlyComparison,
	intent.YearlyComparison:  OpYearlyComparison,
	intent.PnLStatement:      OpPnLStatement,
	intent.BudgetVariance:    OpBudgetVariance,
	intent.CostStructure:     OpTopExpenses,
	intent.QuarterlySummary:  OpQuarterlySummary,
	intent.BurnRate:          OpBurnRate,
	intent.TopExpenses:       OpTopExpenses,
	intent.RevenueGrowth:     OpRevenueGrowth,
	intent.OpexBreakdown:     OpOpexBreakdown,
}

// Answer classifies the question, computes the matching metric and wraps it
// with a textual summary.
func (s *QueryService) Answer(ctx context.Context, question string) (*Answer, error) {
	in := intent.Classify(question)

	answer := &Answer{
		ID:       uuid.NewString(),
		Question: question,
		Intent:   in.Name,
		Period:   in.Period,
	}

	operation, ok := intentOperations[in.Name]
	if !ok {
		answer.Text = "I couldn't match that question to a financial metric. " +
			"Try asking about revenue vs budget, gross margin, EBITDA, burn rate, " +
			"cash runway, top expenses, or a P&L statement."
		return answer, nil
	}

	result, err := s.metrics.Compute(ctx, operation, in.Period, in.LastN)
	if err != nil {
		return nil, err
	}

	answer.Result = result
	answer.Text = summarize(in.Name, result)

	s.logger.InfoContext(ctx, "answered question",
		slog.String("answer_id", answer.ID),
		slog.String("intent", in.Name),
		slog.String("operation", operation))

	return answer, nil
}
