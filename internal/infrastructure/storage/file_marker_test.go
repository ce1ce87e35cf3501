package storage

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestFileMarkerStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewFileMarkerStore(afero.NewMemMapFs(), "/state/last_sent.txt")

	if _, ok, err := store.LastSent(ctx); err != nil || ok {
		t.Fatalf("expected no marker, got ok=%v err=%v", ok, err)
	}

	at := time.Date(2025, time.July, 21, 15, 45, 0, 0, time.UTC)
	if err := store.SetLastSent(ctx, at); err != nil {
		t.Fatalf("set marker: %v", err)
	}

	got, ok, err := store.LastSent(ctx)
	if err != nil || !ok {
		t.Fatalf("read marker: ok=%v err=%v", ok, err)
	}
	if !got.Equal(at) {
		t.Fatalf("unexpected marker: %v, want %v", got, at)
	}

	later := at.Add(time.Hour)
	if err := store.SetLastSent(ctx, later); err != nil {
		t.Fatalf("overwrite marker: %v", err)
	}
	if got, _, _ := store.LastSent(ctx); !got.Equal(later) {
		t.Fatalf("marker not overwritten: %v", got)
	}
}

func TestFileMarkerStoreLegacyFormat(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "last_sent.txt", []byte("2025-07-21 15:45:00\n"), 0o644); err != nil {
		t.Fatalf("seed marker: %v", err)
	}

	got, ok, err := NewFileMarkerStore(fs, "last_sent.txt").LastSent(context.Background())
	if err != nil || !ok {
		t.Fatalf("read legacy marker: ok=%v err=%v", ok, err)
	}
	want := time.Date(2025, time.July, 21, 15, 45, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("unexpected legacy marker: %v, want %v", got, want)
	}
}

func TestFileMarkerStoreMalformed(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "last_sent.txt", []byte("yesterday-ish"), 0o644); err != nil {
		t.Fatalf("seed marker: %v", err)
	}

	if _, ok, err := NewFileMarkerStore(fs, "last_sent.txt").LastSent(context.Background()); err == nil || ok {
		t.Fatalf("expected malformed marker error, got ok=%v err=%v", ok, err)
	}
}
