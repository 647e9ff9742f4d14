package analysis

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/sawpanic/contentrun/internal/config"
	"github.com/sawpanic/contentrun/internal/metrics"
)

// newBreaker trips on a run of consecutive failures, or on the failure ratio
// once enough requests have been seen in the current interval. A missing
// payload is not an outage and never counts as a failure.
func newBreaker(cfg config.BreakerConfig, reg *metrics.Registry) *gobreaker.CircuitBreaker {
	st := gobreaker.Settings{
		Name:     cfg.Name,
		Interval: cfg.Interval,
		Timeout:  cfg.Timeout,
	}
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		if counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
			return true
		}
		if counts.Requests < cfg.MinRequests {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) > cfg.FailureRatio
	}
	st.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrGeneratorUnavailable)
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn().
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("Text generator breaker changed state")
		reg.SetBreakerState(name, float64(to))
	}

	reg.SetBreakerState(cfg.Name, float64(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker(st)
}
