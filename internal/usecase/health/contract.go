package health

import "context"

// DBPinger checks plan cache database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// PlannerChecker checks enrichment provider availability.
type PlannerChecker interface {
	HealthCheck(ctx context.Context) error
}
