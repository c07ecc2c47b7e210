// Package matching implements the lead-to-customer matching engine: a
// deterministic, multi-tier record-linkage pipeline over in-memory records.
// Tiers run in decreasing reliability order (email, phone, name) and each
// lead and customer is consumed by at most one match.
package matching

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// ErrInvalidInput is returned when an input sequence is nil. It is the only
// failure mode the engine has; malformed records degrade instead of erroring.
var ErrInvalidInput = errors.New("matching: lead and customer sequences must be non-nil")

// Engine runs the full matching pipeline. Stateless between invocations;
// every Match call builds a fresh session, so independent datasets can be
// matched concurrently on separate calls.
type Engine struct {
	normalizer *Normalizer
	logger     ectologger.Logger
}

func NewEngine(normalizer *Normalizer, logger ectologger.Logger) *Engine {
	return &Engine{
		normalizer: normalizer,
		logger:     logger,
	}
}

// Match normalizes both input sequences and runs the tiers in fixed order:
// email, phone, then the four name sub-passes. Whatever indices survive all
// tiers are materialized as unmatched records.
func (e *Engine) Match(ctx context.Context, rawLeads, rawCustomers []models.RawRecord) (models.MatchingResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.Match")
	defer span.End()

	if rawLeads == nil || rawCustomers == nil {
		return models.MatchingResult{}, ErrInvalidInput
	}

	leads, customers := e.normalizer.Normalize(rawLeads, rawCustomers)

	s := newSession(leads, customers)
	emailTier(s)
	phoneTier(s)
	nameTier(s)
	result := s.finalize()

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"leads":               len(rawLeads),
		"customers":           len(rawCustomers),
		"matched":             len(result.Matched),
		"unmatched_leads":     len(result.UnmatchedLeads),
		"unmatched_customers": len(result.UnmatchedCustomers),
	}).Info("Matching run complete")

	return result, nil
}
