package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/stretchr/testify/assert"
)

func TestSystemCheckUseCase_Run(t *testing.T) {
	t.Run("reports each dependency", func(t *testing.T) {
		db := interfaces.HealthCheckFunc(func(context.Context) entities.HealthStatus { return entities.Healthy() })
		email := interfaces.HealthCheckFunc(func(context.Context) entities.HealthStatus {
			return entities.Unhealthy(errors.New("535 authentication failed"))
		})
		uc := NewSystemCheckUseCase(db, email, time.Second)
		now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
		uc.now = func() time.Time { return now }

		got := uc.Run(context.Background())
		assert.Equal(t, entities.HealthOK, got.DataService.Status)
		assert.Equal(t, entities.HealthFailed, got.EmailService.Status)
		assert.Equal(t, "535 authentication failed", got.EmailService.Error)
		assert.Equal(t, now, got.LastCheck)
	})

	t.Run("missing check is skipped", func(t *testing.T) {
		got := NewSystemCheckUseCase(nil, nil, 0).Run(context.Background())
		assert.Equal(t, entities.HealthSkipped, got.DataService.Status)
		assert.Equal(t, entities.HealthSkipped, got.EmailService.Status)
	})

	t.Run("checks share the deadline", func(t *testing.T) {
		slow := interfaces.HealthCheckFunc(func(ctx context.Context) entities.HealthStatus {
			<-ctx.Done()
			return entities.Unhealthy(ctx.Err())
		})
		uc := NewSystemCheckUseCase(slow, slow, 50*time.Millisecond)

		start := time.Now()
		got := uc.Run(context.Background())
		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, entities.HealthFailed, got.DataService.Status)
		assert.Equal(t, entities.HealthFailed, got.EmailService.Status)
	})
}
