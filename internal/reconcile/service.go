// Package reconcile orchestrates a single reconciliation pass: load two
// sources through their adapters, run the matching engine, and return a
// report the CLI can render.
package reconcile

import (
	"context"
	"time"

	"transaction-matcher/internal/adapters"
	"transaction-matcher/internal/matcher"
	"transaction-matcher/pkg/logger"
)

// Report wraps the matcher result with source tags and timing for display.
// An empty result with a nil error means both loads succeeded and nothing
// matched or nothing was loaded — callers must present that distinctly from
// a failed load, which returns an error and no Report.
type Report struct {
	LeftSource  string
	RightSource string
	Result      *matcher.Result
	Summary     matcher.Summary
	Elapsed     time.Duration
}

// Service runs reconciliation passes. It holds no per-run state and is safe
// for concurrent use.
type Service struct {
	logger logger.Logger
}

// NewService creates a reconciliation service.
func NewService() *Service {
	return &Service{
		logger: logger.Global().WithComponent("reconcile"),
	}
}

// Run loads both sides and matches them. Conventionally the remote service
// is the left side and the CSV export the right side, but Run does not
// depend on that. A fatal load error from either adapter aborts the pass.
func (s *Service) Run(ctx context.Context, left, right adapters.SourceAdapter, tol matcher.Tolerances) (*Report, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	leftTxs, err := left.LoadTransactions(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logger.Fields{
		"source": left.SourceType(),
		"count":  len(leftTxs),
	}).Info("Loaded left source")

	rightTxs, err := right.LoadTransactions(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logger.Fields{
		"source": right.SourceType(),
		"count":  len(rightTxs),
	}).Info("Loaded right source")

	result, err := matcher.Match(leftTxs, rightTxs, tol)
	if err != nil {
		return nil, err
	}

	report := &Report{
		LeftSource:  left.SourceType(),
		RightSource: right.SourceType(),
		Result:      result,
		Summary:     result.Summary(),
		Elapsed:     time.Since(start),
	}

	s.logger.WithFields(logger.Fields{
		"matched":         report.Summary.Matched,
		"unmatched_left":  report.Summary.UnmatchedLeft,
		"unmatched_right": report.Summary.UnmatchedRight,
		"elapsed":         report.Elapsed.String(),
	}).Info("Reconciliation completed")

	return report, nil
}
