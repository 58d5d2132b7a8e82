package utils

import (
	"context"
	"fmt"
	"time"
)

// Outcome is the result of a bounded polling task.
type Outcome int

const (
	// Exhausted means every attempt ran without success.
	Exhausted Outcome = iota
	// Succeeded means an attempt reported success and polling stopped.
	Succeeded
	// Cancelled means the context ended before success or exhaustion.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Exhausted:
		return "exhausted"
	case Succeeded:
		return "succeeded"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// PollConfig holds the parameters for a fixed-interval, bounded poll.
type PollConfig struct {
	MaxAttempts int
	Interval    time.Duration
	Logger      *Logger
}

// Poll calls fn once per Interval, the first call one Interval after start,
// until fn reports success, MaxAttempts calls have been made, or ctx is done.
func (p *PollConfig) Poll(ctx context.Context, operationName string, fn func(ctx context.Context, attempt int) bool) Outcome {
	interval := p.Interval
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			p.Logger.Debug("[poll] %s cancelled before attempt %d/%d", operationName, attempt, p.MaxAttempts)
			return Cancelled
		case <-ticker.C:
		}

		p.Logger.Debug("[poll] %s attempt %d/%d", operationName, attempt, p.MaxAttempts)
		if fn(ctx, attempt) {
			return Succeeded
		}
		if ctx.Err() != nil {
			return Cancelled
		}
	}

	p.Logger.Debug("[poll] %s exhausted after %d attempts", operationName, p.MaxAttempts)
	return Exhausted
}
