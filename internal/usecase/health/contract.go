package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks availability of the flavor suggestion provider.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
