package interfaces

import (
	"context"

	"payment_gateway/internal/domain/entities"
)

// IHealthCheck checks one backing dependency. It never returns an error: failures are
// reported in the status.
type IHealthCheck interface {
	Check(ctx context.Context) entities.HealthStatus
}

// HealthCheckFunc adapts a function to IHealthCheck.
type HealthCheckFunc func(ctx context.Context) entities.HealthStatus

func (f HealthCheckFunc) Check(ctx context.Context) entities.HealthStatus { return f(ctx) }
