package otel

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "tmux-marks"

// Metrics holds all OTEL metric instruments for tmux-marks.
// All methods are safe on a nil receiver.
type Metrics struct {
	// External process spawns partitioned by outcome (ok, exit_error, spawn_failed, timeout)
	ProcessSpawns metric.Int64Counter

	// Inventory refreshes partitioned by outcome (ok, unavailable, empty)
	Refreshes metric.Int64Counter
	// Sessions tracks the size of the last accepted snapshot.
	Sessions metric.Int64UpDownCounter

	// Jumps partitioned by outcome (ok, no_match, no_editor, error)
	Jumps metric.Int64Counter

	// Mark store changes partitioned by op (add, remove, reject)
	MarkChanges metric.Int64Counter

	lastSessions atomic.Int64
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.ProcessSpawns, err = meter.Int64Counter("process.spawns",
		metric.WithDescription("External commands spawned, partitioned by outcome"))
	if err != nil {
		return nil, err
	}

	m.Refreshes, err = meter.Int64Counter("inventory.refreshes",
		metric.WithDescription("Inventory refreshes, partitioned by outcome"))
	if err != nil {
		return nil, err
	}

	m.Sessions, err = meter.Int64UpDownCounter("inventory.sessions",
		metric.WithDescription("Number of sessions in the current inventory snapshot"),
		metric.WithUnit("{session}"))
	if err != nil {
		return nil, err
	}

	m.Jumps, err = meter.Int64Counter("jumps",
		metric.WithDescription("Jump requests, partitioned by outcome"))
	if err != nil {
		return nil, err
	}

	m.MarkChanges, err = meter.Int64Counter("marks.changes",
		metric.WithDescription("Mark store mutations, partitioned by op"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordSpawn records one external process spawn.
func (m *Metrics) RecordSpawn(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.ProcessSpawns.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordRefresh records an inventory refresh. sessions is the snapshot size
// and is only applied when the outcome is "ok".
func (m *Metrics) RecordRefresh(ctx context.Context, outcome string, sessions int) {
	if m == nil {
		return
	}
	m.Refreshes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	if outcome == "ok" {
		n := int64(sessions)
		prev := m.lastSessions.Swap(n)
		m.Sessions.Add(ctx, n-prev)
	}
}

// RecordJump records a jump request.
func (m *Metrics) RecordJump(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.Jumps.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordMarkChange records a mark store mutation.
func (m *Metrics) RecordMarkChange(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.MarkChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}
