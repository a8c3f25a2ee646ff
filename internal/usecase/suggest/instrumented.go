package suggest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
	"github.com/kailas-cloud/caskbook/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	RemainingDaily() int64
	RemainingMonthly() int64
}

// InstrumentedSuggester wraps a provider with budget enforcement and logging.
// Request, duration and token metrics are recorded in transport/openai.
type InstrumentedSuggester struct {
	inner    flavor.Suggester
	provider string
	model    string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedSuggester wraps inner. budget may be nil.
func NewInstrumentedSuggester(
	inner flavor.Suggester, provider, model string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedSuggester {
	return &InstrumentedSuggester{
		inner:    inner,
		provider: provider,
		model:    model,
		budget:   budget,
		logger:   logger,
	}
}

// Suggest checks the budget, delegates and records token usage.
func (p *InstrumentedSuggester) Suggest(ctx context.Context, notes string) (flavor.Suggestion, error) {
	if p.budget != nil {
		if err := p.budget.Check(ctx); err != nil {
			p.logger.Error("Suggestion budget exceeded",
				zap.String("provider", p.provider),
				zap.String("model", p.model),
				zap.Error(err),
			)
			return flavor.Suggestion{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	res, err := p.inner.Suggest(ctx, notes)
	duration := time.Since(start)
	if err != nil {
		p.logger.Error("Suggestion request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return flavor.Suggestion{}, fmt.Errorf("suggest: %w", err)
	}

	if p.budget != nil && res.TotalTokens > 0 {
		p.budget.Record(int64(res.TotalTokens))
		remaining := metrics.SuggestBudgetTokensRemaining
		remaining.WithLabelValues(p.provider, "daily").Set(float64(p.budget.RemainingDaily()))
		remaining.WithLabelValues(p.provider, "monthly").Set(float64(p.budget.RemainingMonthly()))
	}

	p.logger.Debug("Suggestion request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", res.PromptTokens),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return res, nil
}
