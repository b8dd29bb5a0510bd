package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"
)

//go:generate mockgen -source=system_check_usecase.go -destination=../adapter/http/handlers/mocks/system_check_usecase_mock.go -package=mocks

// ISystemCheckUseCase reports the state of storage and email delivery.
type ISystemCheckUseCase interface {
	Run(ctx context.Context) entities.SystemCheck
}

type SystemCheckUseCase struct {
	database interfaces.IHealthCheck
	email    interfaces.IHealthCheck
	timeout  time.Duration
	now      func() time.Time
}

var _ ISystemCheckUseCase = (*SystemCheckUseCase)(nil)

func NewSystemCheckUseCase(database, email interfaces.IHealthCheck, timeout time.Duration) *SystemCheckUseCase {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SystemCheckUseCase{
		database: database,
		email:    email,
		timeout:  timeout,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run checks every dependency concurrently under one deadline.
func (u *SystemCheckUseCase) Run(ctx context.Context) entities.SystemCheck {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	out := entities.SystemCheck{}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		out.DataService = check(ctx, u.database, "storage")
	}()
	go func() {
		defer wg.Done()
		out.EmailService = check(ctx, u.email, "email")
	}()
	wg.Wait()

	out.LastCheck = u.now()
	log.Printf("[system][check] data_service=%s email_service=%s", out.DataService.Status, out.EmailService.Status)
	return out
}

func check(ctx context.Context, c interfaces.IHealthCheck, name string) entities.HealthStatus {
	if c == nil {
		return entities.SkippedCheck(name + " check not configured")
	}
	return c.Check(ctx)
}
