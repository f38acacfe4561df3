package notifications

import (
	"context"
)

// Service defines the interface for notification services
type Service interface {
	// SendServiceDownNotification reports a service that crossed its failure threshold
	SendServiceDownNotification(ctx context.Context, data ServiceDownData) error

	// SendServiceRecoveryNotification reports a service that is healthy again
	SendServiceRecoveryNotification(ctx context.Context, data ServiceRecoveryData) error

	// SendSnapshotFailureNotification reports a scheduled snapshot that failed
	SendSnapshotFailureNotification(ctx context.Context, data SnapshotFailureData) error
}
