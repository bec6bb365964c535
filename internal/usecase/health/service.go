package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results and index statistics.
type Report struct {
	Status            Status
	Checks            map[string]CheckResult
	AssessmentsLoaded int
	Model             string
	EmbeddingDim      int
}

// Service coordinates health checks.
type Service struct {
	index     IndexInfo
	embedding EmbeddingChecker
}

// New creates a Service. embedding can be nil.
func New(index IndexInfo, embedding EmbeddingChecker) *Service {
	return &Service{index: index, embedding: embedding}
}

// Check runs health checks and collects index stats. The index is immutable
// shared state, so its check is a simple non-empty assertion.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.index.Len() > 0 {
		checks["index"] = CheckOK
	} else {
		checks["index"] = CheckError
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{
		Status:            status,
		Checks:            checks,
		AssessmentsLoaded: s.index.Len(),
		Model:             s.index.Model(),
		EmbeddingDim:      s.index.Dim(),
	}
}
