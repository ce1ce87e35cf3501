package scanner

import (
	"context"
	"testing"

	"CallbackNotifier/internal/domain"
)

type stubScanner struct{ name string }

func (s stubScanner) Name() string { return s.name }

func (s stubScanner) Scan(context.Context, Request) ([]domain.Row, error) { return nil, nil }

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(stubScanner{name: DefaultName})
	reg.Register(stubScanner{name: "json"})

	got, err := reg.Resolve("")
	if err != nil {
		t.Fatalf("resolve default: %v", err)
	}
	if got.Name() != DefaultName {
		t.Fatalf("unexpected default scanner: %s", got.Name())
	}

	if _, err := reg.Resolve("json"); err != nil {
		t.Fatalf("resolve json: %v", err)
	}

	if _, err := reg.Resolve("missing"); err == nil {
		t.Fatalf("expected error for unregistered scanner")
	}
}

func TestRegistryZeroValue(t *testing.T) {
	t.Parallel()

	var reg Registry
	reg.Register(stubScanner{name: "html"})

	if _, err := reg.Resolve("html"); err != nil {
		t.Fatalf("resolve on zero registry: %v", err)
	}
}
