package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/lueurxax/soundscape/internal/core/errors"
	"github.com/lueurxax/soundscape/internal/platform/observability"
)

// circuit trips after threshold consecutive upstream failures and half-opens
// after resetAfter. Context cancellations are not counted.
type circuit struct {
	provider string
	breaker  *gobreaker.TwoStepCircuitBreaker[struct{}]
}

func newCircuit(provider string, threshold int, resetAfter time.Duration, logger *zerolog.Logger) *circuit {
	if threshold <= 0 {
		threshold = defaultCircuitThreshold
	}

	if resetAfter <= 0 {
		resetAfter = defaultCircuitTimeout
	}

	observability.LLMCircuitBreakerState.WithLabelValues(provider).Set(0)

	return &circuit{
		provider: provider,
		breaker: gobreaker.NewTwoStepCircuitBreaker[struct{}](gobreaker.Settings{
			Name:    provider,
			Timeout: resetAfter,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(threshold)
			},
			IsExcluded: func(err error) bool {
				return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				observability.LLMCircuitBreakerState.WithLabelValues(name).Set(stateValue(to))

				if to == gobreaker.StateOpen {
					observability.LLMCircuitBreakerOpens.WithLabelValues(name).Inc()
				}

				if logger != nil {
					logger.Warn().
						Str("provider", name).
						Str("from", from.String()).
						Str("to", to.String()).
						Msg("Circuit breaker state changed")
				}
			},
		}),
	}
}

// allow returns the callback that reports the outcome of the guarded call.
func (c *circuit) allow() (func(error), error) {
	done, err := c.breaker.Allow()
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s)", errors.ErrCircuitBreakerOpen, c.provider, err.Error())
	}

	return done, nil
}

func (c *circuit) state() gobreaker.State {
	return c.breaker.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 0.5
	default:
		return 0
	}
}
