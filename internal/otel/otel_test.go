package otel

import (
	"context"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{"empty", "", map[string]string{}},
		{"single", "Authorization=Basic abc", map[string]string{"Authorization": "Basic abc"}},
		{"multiple with spaces", " a=1 , b = 2 ", map[string]string{"a": "1", "b": "2"}},
		{"value containing equals", "token=a=b", map[string]string{"token": "a=b"}},
		{"missing key skipped", "=x,y=1", map[string]string{"y": "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseHeaders(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("header %q: got %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestInit_NoEndpointIsNoop(t *testing.T) {
	ctx := context.Background()
	tel, err := Init(ctx, OTELConfig{})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer tel.Shutdown(ctx)

	if tel.Tracer == nil || tel.Metrics == nil {
		t.Fatal("expected tracer and metrics even without an endpoint")
	}
	tel.Metrics.RecordSpawn(ctx, "ok")
	tel.Metrics.RecordRefresh(ctx, "ok", 3)
	tel.Metrics.RecordRefresh(ctx, "ok", 1)
	if got := tel.Metrics.lastSessions.Load(); got != 1 {
		t.Errorf("lastSessions: got %d, want 1", got)
	}
}

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordSpawn(ctx, "ok")
	m.RecordRefresh(ctx, "ok", 2)
	m.RecordJump(ctx, "ok")
	m.RecordMarkChange(ctx, "add")
}
