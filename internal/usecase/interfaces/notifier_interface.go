package interfaces

import "context"

//go:generate mockgen -source=notifier_interface.go -destination=mocks/notifier_interface_mock.go -package=mock_interfaces

// INotifier delivers "payment completed" notifications. Delivery is best-effort.
type INotifier interface {
	NotifyPaymentCompleted(ctx context.Context, subjectID string) error
}
