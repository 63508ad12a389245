package engine

import (
	"context"

	"golang.org/x/time/rate"
)

// Pacer spaces out calls to each class of external service. One token bucket
// per service type, sized from the per-minute limits in config; Wait blocks
// until the next token or the context ends. Replaces fixed inter-call sleeps.
type Pacer struct {
	search     *rate.Limiter
	completion *rate.Limiter
	upload     *rate.Limiter
}

// NewPacer builds a pacer from per-minute budgets. Zero or negative budgets
// mean unpaced (infinite rate) for that class.
func NewPacer(searchPerMin, completionPerMin, uploadPerMin float64) *Pacer {
	return &Pacer{
		search:     newLimiter(searchPerMin),
		completion: newLimiter(completionPerMin),
		upload:     newLimiter(uploadPerMin),
	}
}

func newLimiter(perMin float64) *rate.Limiter {
	if perMin <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	// Burst 1: calls are spaced evenly rather than front-loaded.
	return rate.NewLimiter(rate.Limit(perMin/60.0), 1)
}

// WaitSearch blocks until the next job board call is allowed.
func (p *Pacer) WaitSearch(ctx context.Context) error {
	return p.search.Wait(ctx)
}

// WaitCompletion blocks until the next LLM call is allowed.
func (p *Pacer) WaitCompletion(ctx context.Context) error {
	return p.completion.Wait(ctx)
}

// WaitUpload blocks until the next Drive/Sheets call is allowed.
func (p *Pacer) WaitUpload(ctx context.Context) error {
	return p.upload.Wait(ctx)
}
