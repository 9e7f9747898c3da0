package fetch

import (
	"time"

	"github.com/brain2-labs/assetengine/pkg/assetpath"
	"github.com/brain2-labs/assetengine/pkg/ecs"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Fallback wraps a primary Engine with a circuit breaker and a secondary
// Engine to use once the primary is unhealthy. It uses the same
// gobreaker.Settings shape as an HTTP circuit-breaker middleware, trading
// the HTTP-specific ReadyToTrip (5xx ratio) for a plain failure-ratio
// check against LoadBytes errors.
type Fallback struct {
	primary   Engine
	secondary Engine
	cb        *gobreaker.CircuitBreaker
	log       *zap.Logger
}

// FallbackConfig mirrors the circuit-breaker config fields that still
// apply once the breaker guards a fetch instead of an HTTP handler.
type FallbackConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultFallbackConfig returns reasonable breaker thresholds.
func DefaultFallbackConfig(name string) FallbackConfig {
	return FallbackConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// NewFallback builds a Fallback, falling back to secondary whenever the
// breaker around primary is open or a call to primary fails outright.
func NewFallback(cfg FallbackConfig, primary, secondary Engine, log *zap.Logger) *Fallback {
	if log == nil {
		log = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("fallback breaker state change",
				zap.String("breaker", name), zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})
	return &Fallback{primary: primary, secondary: secondary, cb: cb, log: log}
}

// LoadBytes tries the breaker-guarded primary first, falling back to
// secondary on any breaker rejection or primary failure.
func (f *Fallback) LoadBytes(path assetpath.Path) (Bundle, error) {
	result, err := f.cb.Execute(func() (any, error) {
		return f.primary.LoadBytes(path)
	})
	if err == nil {
		return result.(Bundle), nil
	}
	f.log.Warn("primary fetch failed, trying fallback engine",
		zap.String("path", path.String()), zap.Error(err))
	return f.secondary.LoadBytes(path)
}

// Maintain drains both the primary and secondary engines if they
// maintain state.
func (f *Fallback) Maintain(s *ecs.Storage) error {
	if m, ok := f.primary.(Maintainer); ok {
		if err := m.Maintain(s); err != nil {
			return err
		}
	}
	if m, ok := f.secondary.(Maintainer); ok {
		if err := m.Maintain(s); err != nil {
			return err
		}
	}
	return nil
}
