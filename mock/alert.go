package mock

import (
	"context"

	"github.com/kmathews/zalert"
)

var _ zalert.AlertSource = (*AlertSource)(nil)

// AlertSource is a mock implementation of zalert.AlertSource.
type AlertSource struct {
	FetchUnreadFn   func(ctx context.Context) ([]zalert.Alert, error)
	MarkProcessedFn func(ctx context.Context, uid uint32) error
}

func (s *AlertSource) FetchUnread(ctx context.Context) ([]zalert.Alert, error) {
	return s.FetchUnreadFn(ctx)
}

func (s *AlertSource) MarkProcessed(ctx context.Context, uid uint32) error {
	return s.MarkProcessedFn(ctx, uid)
}

var _ zalert.AlertLog = (*AlertLog)(nil)

// AlertLog is a mock implementation of zalert.AlertLog.
type AlertLog struct {
	LogAlertFn  func(ctx context.Context, bodyHash, subject string, listings int) error
	SeenAlertFn func(ctx context.Context, bodyHash string) (bool, error)
}

func (l *AlertLog) LogAlert(ctx context.Context, bodyHash, subject string, listings int) error {
	return l.LogAlertFn(ctx, bodyHash, subject, listings)
}

func (l *AlertLog) SeenAlert(ctx context.Context, bodyHash string) (bool, error) {
	return l.SeenAlertFn(ctx, bodyHash)
}
