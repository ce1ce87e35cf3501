package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"

	"CallbackNotifier/internal/ports"
)

// legacyLayout is the naive local timestamp older installs wrote.
const legacyLayout = "2006-01-02 15:04:05"

// FileMarkerStore keeps the last-sent marker as a single text timestamp.
type FileMarkerStore struct {
	fs   afero.Fs
	path string
}

var _ ports.MarkerStore = (*FileMarkerStore)(nil)

// NewFileMarkerStore stores the marker at path on fs. A nil fs means the OS filesystem.
func NewFileMarkerStore(fs afero.Fs, path string) *FileMarkerStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileMarkerStore{fs: fs, path: path}
}

// LastSent reads the marker; a missing file yields ok=false.
func (s *FileMarkerStore) LastSent(context.Context) (time.Time, bool, error) {
	raw, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read marker: %w", err)
	}

	at, err := parseMarker(string(raw))
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}

// SetLastSent overwrites the marker with at.
func (s *FileMarkerStore) SetLastSent(_ context.Context, at time.Time) error {
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, []byte(at.Format(time.RFC3339)), 0o644); err != nil {
		return fmt.Errorf("write marker: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace marker: %w", err)
	}
	return nil
}

func parseMarker(raw string) (time.Time, error) {
	text := strings.TrimSpace(raw)
	if at, err := time.Parse(time.RFC3339Nano, text); err == nil {
		return at, nil
	}
	at, err := time.ParseInLocation(legacyLayout, text, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed marker %q", text)
	}
	return at, nil
}
