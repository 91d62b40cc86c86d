package health_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/ErlanBelekov/sections-api/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestChecker(deps ...health.Dependency) (*health.Checker, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return health.NewChecker(slog.Default(), reg, deps...), reg
}

func TestLiveness_AlwaysUp(t *testing.T) {
	c, _ := newTestChecker(health.Dependency{Name: "postgres", Pinger: &mockPinger{err: errors.New("db down")}})

	result := c.Liveness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if result.Checks != nil {
		t.Fatalf("expected no checks, got %v", result.Checks)
	}
}

func TestReadiness_PostgresUp(t *testing.T) {
	c, reg := newTestChecker(health.Dependency{Name: "postgres", Pinger: &mockPinger{}})

	result := c.Readiness(context.Background())
	if result.Status != "up" {
		t.Fatalf("expected status up, got %s", result.Status)
	}
	if pg := result.Checks["postgres"]; pg.Status != "up" {
		t.Fatalf("expected postgres up, got %q", pg.Status)
	}
	if got := testGauge(t, reg, "sections_health_check_up", "postgres"); got != 1 {
		t.Fatalf("expected gauge 1, got %f", got)
	}
}

func TestReadiness_OneDependencyDown(t *testing.T) {
	c, reg := newTestChecker(
		health.Dependency{Name: "postgres", Pinger: &mockPinger{err: errors.New("connection refused")}},
		health.Dependency{Name: "memory", Pinger: &mockPinger{}},
	)

	result := c.Readiness(context.Background())
	if result.Status != "down" {
		t.Fatalf("expected status down, got %s", result.Status)
	}
	pg := result.Checks["postgres"]
	if pg.Status != "down" || pg.Error == "" {
		t.Fatalf("expected postgres down with error, got %+v", pg)
	}
	if result.Checks["memory"].Status != "up" {
		t.Fatalf("expected memory up, got %+v", result.Checks["memory"])
	}

	if got := testGauge(t, reg, "sections_health_check_up", "postgres"); got != 0 {
		t.Fatalf("expected postgres gauge 0, got %f", got)
	}
	if got := testGauge(t, reg, "sections_health_check_up", "memory"); got != 1 {
		t.Fatalf("expected memory gauge 1, got %f", got)
	}
}

func testGauge(t *testing.T, reg *prometheus.Registry, name, depLabel string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "dependency" && lp.GetValue() == depLabel {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s{dependency=%q} not found", name, depLabel)
	return 0
}

func TestReadiness_NoDependencies(t *testing.T) {
	c, reg := newTestChecker()

	if got := c.Readiness(context.Background()).Status; got != "up" {
		t.Fatalf("expected up, got %s", got)
	}
	n, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no gauge samples, got %d", n)
	}
}
