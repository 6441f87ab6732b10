package core

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestExpvarMetricsRecorderAggregates(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	if rec.Name() == "" {
		t.Fatalf("expected generated name")
	}
	ctx := context.Background()
	rec.Observe(ctx, "add_job", true, 10*time.Millisecond)
	rec.Observe(ctx, "add_job", true, 5*time.Millisecond)
	rec.Observe(ctx, "add_job", false, time.Millisecond)
	rec.Observe(ctx, "", true, time.Millisecond)

	snap := rec.Snapshot()
	if snap.DurationsMS["add_job"] != 16 {
		t.Fatalf("expected 16ms total, got %v", snap.DurationsMS["add_job"])
	}
	if snap.Results["add_job"]["success"] != 2 || snap.Results["add_job"]["error"] != 1 {
		t.Fatalf("unexpected results: %+v", snap.Results)
	}
	if len(snap.Results) != 1 {
		t.Fatalf("empty operation must be ignored")
	}
}

func TestServiceObservesOperations(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	var traceOut bytes.Buffer
	tracer := NewJSONTracer(&traceOut)
	svc := NewInMemoryService(nil, WithMetrics(rec), WithTracer(tracer))
	ctx := context.Background()

	if _, _, err := svc.AddJob(ctx, AddJobInput{Company: "C", Position: "P"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := svc.AddJob(ctx, AddJobInput{}); err == nil {
		t.Fatalf("expected validation failure")
	}

	snap := rec.Snapshot()
	if snap.Results["add_job"]["success"] != 1 || snap.Results["add_job"]["error"] != 1 {
		t.Fatalf("unexpected metric results: %+v", snap.Results)
	}

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(entries))
	}
	if entries[0].Status != "success" || entries[1].Status != "error" {
		t.Fatalf("unexpected span statuses: %+v", entries)
	}
	if entries[1].Error == "" {
		t.Fatalf("failed span must carry the error")
	}
	if !strings.Contains(traceOut.String(), `"operation":"add_job"`) {
		t.Fatalf("spans must be written as JSON lines: %s", traceOut.String())
	}
}

func TestPrometheusMetricsRecorderRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	rec.Observe(context.Background(), "add_job", true, 3*time.Millisecond)
	rec.Observe(context.Background(), "add_job", false, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	if !names["jobdeck_commands_total"] || !names["jobdeck_command_duration_seconds"] {
		t.Fatalf("expected dispatcher collectors, got %v", names)
	}

	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("double registration must fail")
	}
}
