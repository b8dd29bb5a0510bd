package notification

import (
	"context"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"
)

type verifier interface {
	Verify(ctx context.Context) error
}

// NewHealthCheck checks the SMTP session behind n. A notifier without a mail server
// is reported as skipped.
func NewHealthCheck(n interfaces.INotifier) interfaces.IHealthCheck {
	return interfaces.HealthCheckFunc(func(ctx context.Context) entities.HealthStatus {
		v, ok := n.(verifier)
		if !ok {
			return entities.SkippedCheck("Missing Email env vars")
		}
		if err := v.Verify(ctx); err != nil {
			return entities.Unhealthy(err)
		}
		return entities.Healthy()
	})
}
