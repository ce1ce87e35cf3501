package parser

import (
	"context"
	"fmt"
	"log/slog"

	"CallbackNotifier/internal/domain"
	"CallbackNotifier/internal/ports"
	"CallbackNotifier/internal/scanner"
)

// StrategySource implements RowSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	logger   *slog.Logger
}

var _ ports.RowSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry used to read every source.
func NewStrategySource(reg *scanner.Registry, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		logger:   log,
	}
}

// FetchRows resolves the source's scanner and returns its filtered rows.
func (s *StrategySource) FetchRows(ctx context.Context, source domain.Source) ([]domain.Row, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("process source", "source", source.Name, "scanner", source.Scanner, "url", source.URL)
	strategy, err := s.registry.Resolve(source.Scanner)
	if err != nil {
		return nil, err
	}

	rows, err := strategy.Scan(ctx, scanner.Request{
		SourceName:  source.Name,
		URL:         source.URL,
		FilterLabel: source.FilterLabel,
	})
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	s.debug("source produced rows", "source", source.Name, "count", len(rows))
	return rows, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
