package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"CallbackNotifier/internal/domain"
	"CallbackNotifier/internal/ports"
	"CallbackNotifier/internal/schedule"
)

// Aggregator walks the active sources and sorts their rows into buckets.
type Aggregator struct {
	rows   ports.RowSource
	logger *slog.Logger
}

// NewAggregator wires the row source used for every active MIS.
func NewAggregator(rows ports.RowSource, logger *slog.Logger) *Aggregator {
	return &Aggregator{rows: rows, logger: logger}
}

// Collect fetches rows of every active source in order and classifies their
// remarks against window. Rows that are too short or whose remarks do not
// parse are skipped. A row source failure aborts the collection.
func (a *Aggregator) Collect(ctx context.Context, now time.Time, sources []domain.Source, window schedule.Window) (domain.Buckets, error) {
	var buckets domain.Buckets
	if a.rows == nil {
		return buckets, fmt.Errorf("row source is not configured")
	}

	for _, source := range sources {
		if !source.Active {
			continue
		}

		rows, err := a.rows.FetchRows(ctx, source)
		if err != nil {
			return domain.Buckets{}, fmt.Errorf("source %s: %w", source.Name, err)
		}
		a.debug("source rows fetched", "source", source.Name, "filter", source.FilterLabel, "rows", len(rows))

		var upcoming, missed int
		for _, row := range rows {
			event, ok := eventFromRow(source, row)
			if !ok {
				continue
			}

			switch window.Classify(now, event.DueAt) {
			case schedule.Upcoming:
				buckets.Upcoming = append(buckets.Upcoming, event)
				upcoming++
			case schedule.Missed:
				buckets.Missed = append(buckets.Missed, event)
				missed++
			}
		}
		a.debug("source classified", "source", source.Name, "upcoming", upcoming, "missed", missed)
	}

	return buckets, nil
}

func eventFromRow(source domain.Source, row domain.Row) (domain.CallbackEvent, bool) {
	if len(row) <= source.MaxColumn() {
		return domain.CallbackEvent{}, false
	}

	remarks := strings.TrimSpace(row[source.RemarksCol])
	due, ok := schedule.Parse(remarks)
	if !ok {
		return domain.CallbackEvent{}, false
	}

	event := domain.CallbackEvent{
		Source:     source.Name,
		Icon:       source.Icon,
		ProposalID: strings.TrimSpace(row[source.ProposalCol]),
		Remarks:    remarks,
		DueAt:      due,
	}
	if source.MemberCol != nil {
		event.Member = strings.TrimSpace(row[*source.MemberCol])
	}
	return event, true
}

func (a *Aggregator) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
