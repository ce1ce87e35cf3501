package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"CallbackNotifier/internal/config"
	"CallbackNotifier/internal/domain"
	"CallbackNotifier/internal/infrastructure/discord"
	"CallbackNotifier/internal/infrastructure/parser"
	"CallbackNotifier/internal/infrastructure/scheduler"
	"CallbackNotifier/internal/infrastructure/storage"
	"CallbackNotifier/internal/infrastructure/telegram"
	"CallbackNotifier/internal/logging"
	"CallbackNotifier/internal/ports"
	"CallbackNotifier/internal/scanner"
	"CallbackNotifier/internal/schedule"
	"CallbackNotifier/internal/telemetry"
	"CallbackNotifier/internal/usecase"
)

// Options overrides the collaborators New would otherwise build from config.
type Options struct {
	Logger   *slog.Logger
	Registry prometheus.Registerer
	Rows     ports.RowSource
	Markers  ports.MarkerStore
	Notifier ports.Notifier
	Now      func() time.Time
}

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg     config.Config
	monitor *usecase.Monitor
	logger  *slog.Logger
	closer  io.Closer

	mu sync.Mutex
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, opts Options) (*Application, error) {
	baseLogger := opts.Logger
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	if cfg.Server.Cron != "" {
		if err := scheduler.NewCronScheduler(cfg.Server.Cron, schedule.Location).Validate(); err != nil {
			return nil, err
		}
	}

	rows := opts.Rows
	if rows == nil {
		registry := scanner.NewRegistry()
		client := &http.Client{Timeout: cfg.MIS.Timeout}
		registry.Register(parser.NewMISScanner(client, cfg.MIS.Username, cfg.MIS.Password, baseLogger.With("component", "scanner.html")))
		rows = parser.NewStrategySource(registry, baseLogger.With("component", "source"))
	}

	var closer io.Closer
	markers := opts.Markers
	if markers == nil && cfg.MasterSwitch {
		store, c, err := storage.OpenMarkerStore(ctx, cfg.Marker)
		if err != nil {
			return nil, err
		}
		markers, closer = store, c
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifierFromConfig(cfg.Notifications)
	}

	var metrics *telemetry.Metrics
	if opts.Registry != nil {
		metrics = telemetry.NewMetrics(opts.Registry)
	}

	monitor := usecase.NewMonitor(usecase.MonitorDeps{
		Rows:     rows,
		Markers:  markers,
		Notifier: notifier,
		Metrics:  metrics,
		Logger:   baseLogger.With("component", "monitor"),
		Now:      opts.Now,
	})
	return &Application{cfg: cfg, monitor: monitor, logger: baseLogger, closer: closer}, nil
}

// Config returns the configuration the application was built with.
func (a *Application) Config() config.Config {
	return a.cfg
}

// Logger returns the application base logger.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}

// Run performs a single monitoring run with the given horizons. Runs from
// different triggers inside this process never overlap.
func (a *Application) Run(ctx context.Context, window schedule.Window) (domain.RunResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.monitor.Run(ctx, usecase.RunSpec{
		MasterSwitch:    a.cfg.MasterSwitch,
		CooldownMinutes: a.cfg.CooldownMinutes,
		Sources:         a.cfg.ActiveSources(),
		Window:          window,
	})
}

// DefaultWindow is the window built from configured horizons.
func (a *Application) DefaultWindow() schedule.Window {
	return schedule.Window{FutureMin: a.cfg.Run.FutureMin, LookbackHrs: a.cfg.Run.LookbackHrs}
}

// Scheduler returns the recurring trigger configured by server.cron, or nil.
// Every scheduled run uses window.
func (a *Application) Scheduler(window schedule.Window) *usecase.Scheduler {
	if a.cfg.Server.Cron == "" {
		return nil
	}
	driver := scheduler.NewCronScheduler(a.cfg.Server.Cron, schedule.Location)
	return usecase.NewScheduler(driver, func(ctx context.Context, _ time.Time) error {
		_, err := a.Run(ctx, window)
		return err
	}, a.logger.With("component", "scheduler"))
}

// Close releases the marker store.
func (a *Application) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func notifierFromConfig(cfg config.NotificationConfig) ports.Notifier {
	if cfg.Discord.WebhookURL != "" {
		return discord.NewNotifier(cfg.Discord.WebhookURL, nil)
	}
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		return telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}
	return nil
}
