package run

import "testing"

func TestNew(t *testing.T) {
	r := New()
	if r.ID == "" {
		t.Fatal("expected non-empty run ID")
	}
	if r.Metrics == nil {
		t.Fatal("metrics map not initialized")
	}
	if r.Terminated() {
		t.Fatal("fresh run already terminated")
	}
}

func TestTerminateIsOneWay(t *testing.T) {
	r := New()
	r.Terminate()
	if !r.Terminated() {
		t.Fatal("Terminated false after Terminate")
	}
	// A second signal is harmless.
	r.Terminate()
	if !r.Terminated() {
		t.Fatal("termination flag lost")
	}
}

func TestSetMetricsMerges(t *testing.T) {
	r := New()
	r.SetMetrics(map[string]float64{"loss": 0.5, "acc": 0.8})
	r.SetMetrics(map[string]float64{"loss": 0.4})

	if v, ok := r.Metric("loss"); !ok || v != 0.4 {
		t.Fatalf("loss = %g (%v), want 0.4", v, ok)
	}
	if v, ok := r.Metric("acc"); !ok || v != 0.8 {
		t.Fatalf("acc = %g (%v), want 0.8 untouched", v, ok)
	}
	if _, ok := r.Metric("f1"); ok {
		t.Fatal("unexpected metric present")
	}
}
