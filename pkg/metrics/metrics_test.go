package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestAPIMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewAPIMetrics(reg)
	metrics.Observe("create_order", "ok", 250*time.Millisecond)
	metrics.Observe("create_order", "api_error", 10*time.Millisecond)
	metrics.Observe("", "", time.Millisecond)

	if got := testutil.ToFloat64(metrics.requests.WithLabelValues("create_order", "ok")); got != 1 {
		t.Fatalf("expected ok=1, got %f", got)
	}
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues("unknown", "unknown")); got != 1 {
		t.Fatalf("expected unknown labels to be counted, got %f", got)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchHistogramCount(mfs, "storefront_api_request_duration_seconds", "operation", "create_order"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got != 2 {
		t.Fatalf("expected two observations, got %d", got)
	}
}

func TestHTTPMetricsLabelsStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	metrics.Observe("GET", "/products/{id}", 404, 5*time.Millisecond)

	if got := testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/products/{id}", "404")); got != 1 {
		t.Fatalf("expected one 404, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewAPIMetrics(nil).Observe("me", "ok", time.Second)
	NewHTTPMetrics(nil).Observe("GET", "/me", 200, time.Second)

	var m *APIMetrics
	m.Observe("me", "ok", time.Second)
}

func fetchHistogramCount(mfs []*dto.MetricFamily, name, label, value string) (uint64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return metric.GetHistogram().GetSampleCount(), nil
				}
			}
		}
		return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
	}
	return 0, fmt.Errorf("metric %q not found", name)
}
