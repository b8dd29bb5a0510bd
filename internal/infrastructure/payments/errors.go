package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payment_gateway/internal/domain/entities"
)

func configurationError(p entities.Provider, externalID, msg string) error {
	return entities.NewProviderError(entities.ErrProviderConfiguration, p, externalID, "create payment", errors.New(msg))
}

// requestError wraps an upstream failure; its text is redacted before it is kept.
func requestError(p entities.Provider, externalID, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("provider did not answer in time: %w", context.DeadlineExceeded)
	} else if err != nil {
		err = errors.New(entities.RedactSecrets(err.Error()))
	}
	return entities.NewProviderError(entities.ErrProviderRequest, p, externalID, op, err)
}

func expiryAfter(now time.Time, d time.Duration) *time.Time {
	t := now.Add(d).UTC()
	return &t
}

const defaultProviderTimeout = 15 * time.Second

// withTimeout bounds one outbound provider call.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultProviderTimeout
	}
	return context.WithTimeout(ctx, d)
}
