package health

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Registry is the set of dependencies behind /health/ready.
type Registry struct {
	checkers []Checker
}

func NewRegistry(checkers ...Checker) *Registry {
	return &Registry{checkers: checkers}
}

// Register adds a checker for a dependency wired only in some modes (Kafka).
// Not safe to call while probes are served.
func (r *Registry) Register(c Checker) {
	r.checkers = append(r.checkers, c)
}

type CheckResult struct {
	Name      string `json:"name"`
	Status    Status `json:"status"`
	Message   string `json:"message,omitempty"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

type ReadinessResponse struct {
	Status Status        `json:"status"`
	Checks []CheckResult `json:"checks,omitempty"`
}

// CheckAll probes every dependency concurrently. Results keep registration order
// and the overall status is down as soon as one dependency is.
func (r *Registry) CheckAll(ctx context.Context) ReadinessResponse {
	res := ReadinessResponse{Status: StatusUp}
	if len(r.checkers) == 0 {
		return res
	}

	res.Checks = make([]CheckResult, len(r.checkers))
	var g errgroup.Group
	for i, checker := range r.checkers {
		g.Go(func() error {
			started := time.Now()
			out := checker.Check(ctx)
			res.Checks[i] = CheckResult{
				Name:      checker.Name(),
				Status:    out.Status,
				Message:   out.Message,
				ElapsedMS: time.Since(started).Milliseconds(),
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, check := range res.Checks {
		if check.Status != StatusUp {
			res.Status = StatusDown
		}
	}
	return res
}
