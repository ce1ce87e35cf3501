package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"CallbackNotifier/internal/domain"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeRows struct {
	rows  map[string][]domain.Row
	err   error
	calls []string
}

func (f *fakeRows) FetchRows(_ context.Context, source domain.Source) ([]domain.Row, error) {
	f.calls = append(f.calls, source.Name)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[source.Name], nil
}

type fakeMarkers struct {
	last    time.Time
	has     bool
	readErr error
	setErr  error
	reads   int
	writes  []time.Time
}

func (f *fakeMarkers) LastSent(context.Context) (time.Time, bool, error) {
	f.reads++
	if f.readErr != nil {
		return time.Time{}, false, f.readErr
	}
	return f.last, f.has, nil
}

func (f *fakeMarkers) SetLastSent(_ context.Context, at time.Time) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.writes = append(f.writes, at)
	f.last, f.has = at, true
	return nil
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) Publish(_ context.Context, message string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, message)
	return nil
}

var errBoom = errors.New("boom")

func intPtr(v int) *int { return &v }
