package usecase

import (
	"context"
	"log/slog"
	"time"

	"CallbackNotifier/internal/ports"
)

// CooldownGate suppresses a run while the previous alert is still fresh.
type CooldownGate struct {
	store   ports.MarkerStore
	minutes int
	logger  *slog.Logger
}

// NewCooldownGate builds a gate over store for a cooldown given in minutes.
func NewCooldownGate(store ports.MarkerStore, minutes int, logger *slog.Logger) *CooldownGate {
	return &CooldownGate{store: store, minutes: minutes, logger: logger}
}

// Active reports whether now falls inside the cooldown window. Missing or
// unreadable markers count as "not in cooldown".
func (g *CooldownGate) Active(ctx context.Context, now time.Time) bool {
	if g == nil || g.minutes <= 0 || g.store == nil {
		return false
	}

	last, ok, err := g.store.LastSent(ctx)
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("cooldown marker unreadable, ignoring", "error", err)
		}
		return false
	}
	if !ok {
		return false
	}

	return now.Sub(last) < time.Duration(g.minutes)*time.Minute
}
