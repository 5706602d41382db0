package service

import (
	"context"
	"time"
)

// Timeouts caps how long a single store interaction may run. Aggregate
// queries that scan a whole session get a longer budget than point
// lookups. A hit surfaces as context.DeadlineExceeded from the
// repository, never as a hang.
type Timeouts struct {
	Query     time.Duration
	Aggregate time.Duration
}

func (t Timeouts) forQuery(ctx context.Context) (context.Context, context.CancelFunc) {
	return withBudget(ctx, t.Query)
}

func (t Timeouts) forAggregate(ctx context.Context) (context.Context, context.CancelFunc) {
	return withBudget(ctx, t.Aggregate)
}

func withBudget(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
