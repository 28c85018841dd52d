// Package health serves liveness and readiness probes for the adapters service.
package health

import (
	"context"
	"time"
)

// DefaultTimeout bounds one whole readiness probe, all checks included.
const DefaultTimeout = 3 * time.Second

type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

func down(err error) Result {
	return Result{Status: StatusDown, Message: err.Error()}
}

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// Pinger is implemented by vendor clients that can cheaply prove reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker reports a Pinger under a fixed name.
type PingChecker struct {
	name   string
	pinger Pinger
}

func NewPingChecker(name string, p Pinger) *PingChecker {
	return &PingChecker{name: name, pinger: p}
}

func (c *PingChecker) Name() string {
	return c.name
}

func (c *PingChecker) Check(ctx context.Context) Result {
	if err := c.pinger.Ping(ctx); err != nil {
		return down(err)
	}
	return Result{Status: StatusUp}
}
