package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/autoforge/waitlist-api/pkg/metrics"
)

// Policy decides what a failing step does to the rest of the flow
type Policy int

const (
	// Fatal failures stop the flow and are returned to the caller
	Fatal Policy = iota
	// BestEffort failures are logged and the flow continues
	BestEffort
)

func (p Policy) String() string {
	switch p {
	case Fatal:
		return "fatal"
	case BestEffort:
		return "best_effort"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// Step is one external call in a flow
type Step struct {
	Name   string
	Policy Policy
	Run    func(ctx context.Context) error
}

// StepError identifies the fatal step that stopped a flow
type StepError struct {
	Flow string
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step %s failed: %v", e.Flow, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// RunSteps executes steps in order. The first Fatal failure is returned and no
// later step runs; BestEffort failures are only logged.
func RunSteps(ctx context.Context, log *zap.Logger, flow string, steps []Step) error {
	for _, s := range steps {
		start := time.Now()
		err := s.Run(ctx)
		metrics.StepDuration.WithLabelValues(flow, s.Name).Observe(time.Since(start).Seconds())

		if err == nil {
			metrics.StepsTotal.WithLabelValues(flow, s.Name, "ok").Inc()
			continue
		}

		metrics.StepsTotal.WithLabelValues(flow, s.Name, "error").Inc()
		if s.Policy == BestEffort {
			log.Warn("best-effort step failed",
				zap.String("flow", flow),
				zap.String("step", s.Name),
				zap.Error(err),
			)
			continue
		}
		return &StepError{Flow: flow, Step: s.Name, Err: err}
	}
	return nil
}
