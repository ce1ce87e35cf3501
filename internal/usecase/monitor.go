package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"CallbackNotifier/internal/domain"
	"CallbackNotifier/internal/ports"
	"CallbackNotifier/internal/schedule"
	"CallbackNotifier/internal/telemetry"
)

// MonitorDeps wires all driven adapters into the monitoring run.
type MonitorDeps struct {
	Rows     ports.RowSource
	Markers  ports.MarkerStore
	Notifier ports.Notifier
	Metrics  *telemetry.Metrics
	Logger   *slog.Logger
	Now      func() time.Time
}

// RunSpec is the configuration a single run operates on.
type RunSpec struct {
	MasterSwitch    bool
	CooldownMinutes int
	Sources         []domain.Source
	Window          schedule.Window
}

// Monitor implements the callback monitoring workflow.
type Monitor struct {
	aggregator *Aggregator
	markers    ports.MarkerStore
	notifier   ports.Notifier
	metrics    *telemetry.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// NewMonitor constructs the orchestration component.
func NewMonitor(deps MonitorDeps) *Monitor {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Monitor{
		aggregator: NewAggregator(deps.Rows, logger.With("component", "aggregator")),
		markers:    deps.Markers,
		notifier:   deps.Notifier,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        now,
	}
}

// Run performs one monitoring pass: master switch, cooldown gate, source
// aggregation, then a single alert. Skipped and empty runs are not errors.
func (m *Monitor) Run(ctx context.Context, spec RunSpec) (domain.RunResult, error) {
	result := domain.RunResult{
		ID:      uuid.NewString(),
		Started: m.now().In(schedule.Location),
	}
	logger := m.logger.With("run_id", result.ID)

	status, err := m.run(ctx, spec, &result, logger)
	result.Status = status
	result.Finished = m.now().In(schedule.Location)

	if err != nil {
		m.metrics.ObserveRun(string(domain.StatusFailed), float64(result.Finished.Unix()))
		logger.Error("run failed", "error", err)
		return result, err
	}

	m.metrics.ObserveRun(string(status), float64(result.Finished.Unix()))
	logger.Info("run finished",
		"status", status,
		"upcoming", len(result.Buckets.Upcoming),
		"missed", len(result.Buckets.Missed),
		"took", result.Finished.Sub(result.Started))
	return result, nil
}

func (m *Monitor) run(ctx context.Context, spec RunSpec, result *domain.RunResult, logger *slog.Logger) (domain.RunStatus, error) {
	if !spec.MasterSwitch {
		logger.Info("master switch is off, exiting without notifications")
		return domain.StatusDisabled, nil
	}

	gate := NewCooldownGate(m.markers, spec.CooldownMinutes, logger)
	if gate.Active(ctx, result.Started) {
		logger.Info("cooldown active, skipping run", "cooldown_minutes", spec.CooldownMinutes)
		return domain.StatusCooldown, nil
	}

	buckets, err := m.aggregator.Collect(ctx, result.Started, spec.Sources, spec.Window)
	if err != nil {
		return domain.StatusFailed, fmt.Errorf("collect callbacks: %w", err)
	}
	result.Buckets = buckets

	for _, event := range buckets.Upcoming {
		m.metrics.ObserveEvent(schedule.Upcoming.String(), event.Source)
	}
	for _, event := range buckets.Missed {
		m.metrics.ObserveEvent(schedule.Missed.String(), event.Source)
	}

	if buckets.Empty() {
		logger.Info("nothing to report")
		return domain.StatusNothing, nil
	}

	result.Message = FormatAlert(buckets, spec.Window.FutureMin)

	if m.notifier == nil {
		m.metrics.ObserveNotification("skipped")
		logger.Warn("no notification channel configured, alert not sent")
		return domain.StatusUnsent, nil
	}

	if err := m.notifier.Publish(ctx, result.Message); err != nil {
		m.metrics.ObserveNotification("error")
		return domain.StatusFailed, fmt.Errorf("publish alert: %w", err)
	}
	m.metrics.ObserveNotification("sent")

	if m.markers != nil {
		if err := m.markers.SetLastSent(ctx, m.now()); err != nil {
			logger.Error("record cooldown marker", "error", err)
		}
	}

	logger.Info("notification sent")
	return domain.StatusSent, nil
}
