package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"CallbackNotifier/internal/domain"
)

// Runner executes one monitoring run with default horizons.
type Runner interface {
	RunNow(ctx context.Context) (domain.RunResult, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context) (domain.RunResult, error)

// RunNow calls f.
func (f RunnerFunc) RunNow(ctx context.Context) (domain.RunResult, error) { return f(ctx) }

// NewRouter exposes liveness, the run-now trigger and Prometheus metrics.
func NewRouter(runner Runner, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, "✅ Callback notifier is alive!")
	})

	r.Get("/run-bot", func(w http.ResponseWriter, req *http.Request) {
		result, err := runner.RunNow(req.Context())
		if err != nil {
			if logger != nil {
				logger.Error("run-bot failed", "run_id", result.ID, "error", err)
			}
			writeText(w, http.StatusInternalServerError, fmt.Sprintf("❌ Bot run failed: %v", err))
			return
		}
		writeText(w, http.StatusOK, "✅ Bot executed! "+result.Status.Describe())
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// ListenAndServe serves handler on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if logger != nil {
			logger.Info("listening", "addr", addr)
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
