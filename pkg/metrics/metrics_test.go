package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistryRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry(reg)

	r.Subscriptions.WithLabelValues("s").Inc()
	r.ActiveSubscriptions.WithLabelValues("s").Inc()
	r.Items.WithLabelValues("s").Inc()
	r.Errors.WithLabelValues("s").Inc()
	r.Completions.WithLabelValues("s").Inc()
	r.Cancellations.WithLabelValues("s").Inc()
	r.ObservableUpdates.WithLabelValues("o").Inc()

	count, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if count != 7 {
		t.Errorf("gathered %d series, want 7", count)
	}
}

func TestConstLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistryWithConfig(Config{
		Enabled:  true,
		Registry: reg,
		Labels:   prometheus.Labels{"service": "api"},
	})
	r.Items.WithLabelValues("s").Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	labels := families[0].GetMetric()[0].GetLabel()
	found := false
	for _, l := range labels {
		if l.GetName() == "service" && l.GetValue() == "api" {
			found = true
		}
	}
	if !found {
		t.Errorf("const label service=api missing from %v", labels)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Enabled {
		t.Error("default config should be enabled")
	}
	if cfg.Namespace != "reactflow" {
		t.Errorf("Namespace = %q, want reactflow", cfg.Namespace)
	}
	if DefaultRegistry == nil {
		t.Fatal("DefaultRegistry should be initialized")
	}
}

func TestDisabledConfigSkipsRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistryWithConfig(Config{Registry: reg})
	r.Items.WithLabelValues("s").Inc()

	count, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if count != 0 {
		t.Errorf("gathered %d series from disabled registry, want 0", count)
	}
	if got := testutil.ToFloat64(r.Items.WithLabelValues("s")); got != 1 {
		t.Errorf("Items = %v, want 1", got)
	}
}
