package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the service cannot answer queries.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	dataset DatasetChecker
	cache   CachePinger
}

// New creates a Service. cache can be nil when no cache is configured.
func New(dataset DatasetChecker, cache CachePinger) *Service {
	return &Service{dataset: dataset, cache: cache}
}

// Check runs health checks against all components. A not-yet-loaded dataset
// makes the whole service Unhealthy (queries cannot be answered); a failing
// cache only degrades it (queries fall back to direct scans).
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	status := Healthy
	if s.dataset.Ready() {
		checks["dataset"] = CheckOK
	} else {
		checks["dataset"] = CheckError
		status = Unhealthy
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["cache"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
