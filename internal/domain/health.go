package domain

// HealthStatus indicates doctor check outcomes.
type HealthStatus string

const (
	HealthOK    HealthStatus = "ok"
	HealthWarn  HealthStatus = "warn"
	HealthError HealthStatus = "error"
)

// HealthCheck captures a single diagnostic result.
type HealthCheck struct {
	Name    string
	Status  HealthStatus
	Details string
}

// HealthReport aggregates checks.
type HealthReport struct {
	Checks []HealthCheck
}

// Failed lists the names of checks in the error state.
func (r HealthReport) Failed() []string {
	var names []string
	for _, check := range r.Checks {
		if check.Status == HealthError {
			names = append(names, check.Name)
		}
	}
	return names
}
