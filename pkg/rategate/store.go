package rategate

import (
	"context"
	"time"
)

// Store persists one usage record per emailed postcard.
// Emails passed to a Store are already normalized.
type Store interface {
	// Count returns the records for email with from <= createdAt < to.
	Count(ctx context.Context, email string, from, to time.Time) (int, error)
	Record(ctx context.Context, email string, at time.Time) error
}

// DayWindow returns the UTC day containing t as [start, next day).
func DayWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
