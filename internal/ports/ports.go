package ports

import (
	"context"
	"time"

	"CallbackNotifier/internal/domain"
)

// RowSource yields the table rows of an MIS source, already narrowed to the
// source's filter label.
type RowSource interface {
	FetchRows(ctx context.Context, source domain.Source) ([]domain.Row, error)
}

// Notifier delivers a rendered alert to a chat channel.
type Notifier interface {
	Publish(ctx context.Context, message string) error
}

// MarkerStore persists the time of the last delivered notification.
// The boolean is false when no marker has been recorded yet.
type MarkerStore interface {
	LastSent(ctx context.Context) (time.Time, bool, error)
	SetLastSent(ctx context.Context, at time.Time) error
}

// Scheduler controls when monitoring runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
