package usecase

import (
	"context"
	"sort"
	"time"
)

// HealthCheck probes one backing dependency.
type HealthCheck func(ctx context.Context) error

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

type healthUsecase struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewHealthUsecase builds a health probe over the named checks. Nil checks are skipped.
func NewHealthUsecase(checks map[string]HealthCheck) HealthUsecase {
	active := make(map[string]HealthCheck, len(checks))
	for name, fn := range checks {
		if fn != nil {
			active[name] = fn
		}
	}
	return &healthUsecase{checks: active, timeout: 2 * time.Second}
}

// Check runs every probe and reports per-dependency status. The bool is false
// when any dependency is down.
func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	names := make([]string, 0, len(u.checks))
	for name := range u.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := map[string]string{"status": "ok"}
	healthy := true
	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, u.timeout)
		err := u.checks[name](cctx)
		cancel()
		if err != nil {
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	if !healthy {
		status["status"] = "degraded"
	}
	return status, healthy
}
