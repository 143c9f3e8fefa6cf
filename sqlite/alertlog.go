package sqlite

import (
	"context"
	"time"

	"github.com/kmathews/zalert"
)

// Compile-time interface verification.
var _ zalert.AlertLog = (*AlertLogService)(nil)

// AlertLogService implements zalert.AlertLog using SQLite. Processed alert
// bodies are keyed by content hash so re-delivered messages are recognized
// even when their unread flags were reset.
type AlertLogService struct {
	db *DB
}

// NewAlertLogService creates a new AlertLogService.
func NewAlertLogService(db *DB) *AlertLogService {
	return &AlertLogService{db: db}
}

// LogAlert records a processed alert body. Logging the same hash twice is
// a no-op, not an error.
func (s *AlertLogService) LogAlert(ctx context.Context, bodyHash, subject string, listings int) error {
	if bodyHash == "" {
		return zalert.Errorf(zalert.EINVALID, "alert body hash required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (body_hash, subject, listings, processed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(body_hash) DO NOTHING
	`, bodyHash, subject, listings, time.Now().UTC().Format(time.RFC3339))

	return err
}

// SeenAlert reports whether a body hash has been logged before.
func (s *AlertLogService) SeenAlert(ctx context.Context, bodyHash string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM alerts WHERE body_hash = ?", bodyHash).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
