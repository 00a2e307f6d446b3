package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/psantana5/lxcwrap/internal/supervise"
)

func TestNewSummaryOutcomes(t *testing.T) {
	now := time.Now()
	res := &supervise.Result{
		PID:       1234,
		ExitCode:  1,
		State:     supervise.StateExited,
		StartTime: now.Add(-2 * time.Second),
		EndTime:   now,
		Duration:  2 * time.Second,
	}

	tests := []struct {
		name        string
		res         *supervise.Result
		err         error
		wantOutcome string
		wantExit    int
	}{
		{"clean exit", &supervise.Result{State: supervise.StateExited}, nil, OutcomeExited, 0},
		{"non-zero exit", res, nil, OutcomeExited, 1},
		{"launch failure", nil, fmt.Errorf("%w: not found", supervise.ErrLaunchFailed), OutcomeLaunchFailed, -1},
		{"interrupted", res, fmt.Errorf("%w: cancelled", supervise.ErrInterrupted), OutcomeInterrupted, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := NewSummary("web", "lxc-start", tt.res, tt.err)
			if sum.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %q, want %q", sum.Outcome, tt.wantOutcome)
			}
			if sum.ExitCode != tt.wantExit {
				t.Errorf("ExitCode = %d, want %d", sum.ExitCode, tt.wantExit)
			}
		})
	}
}

func TestLogLine(t *testing.T) {
	sum := NewSummary("web", "lxc-start", &supervise.Result{
		PID:      42,
		ExitCode: 0,
		State:    supervise.StateExited,
		Duration: 3 * time.Second,
	}, nil)

	line := sum.LogLine()
	for _, want := range []string{"LAUNCH web", "outcome=exited", "exit=0", "pid=42"} {
		if !strings.Contains(line, want) {
			t.Errorf("LogLine %q missing %q", line, want)
		}
	}
}

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()

	m.Record(&Summary{Outcome: OutcomeExited, ExitCode: 0, DurationSeconds: 1.5})
	m.Record(&Summary{Outcome: OutcomeExited, ExitCode: 2, DurationSeconds: 0.5})
	m.Record(&Summary{Outcome: OutcomeInterrupted, ExitCode: -1, DurationSeconds: 10})

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	counts := map[string]float64{}
	for _, mf := range families {
		switch mf.GetName() {
		case "lxcwrap_launches_total":
			for _, metric := range mf.GetMetric() {
				for _, label := range metric.GetLabel() {
					if label.GetName() == "outcome" {
						counts[label.GetValue()] = metric.GetCounter().GetValue()
					}
				}
			}
		case "lxcwrap_nonzero_exits_total":
			counts["nonzero"] = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}

	if counts[OutcomeExited] != 2 {
		t.Errorf("exited launches = %v, want 2", counts[OutcomeExited])
	}
	if counts[OutcomeInterrupted] != 1 {
		t.Errorf("interrupted launches = %v, want 1", counts[OutcomeInterrupted])
	}
	if counts["nonzero"] != 1 {
		t.Errorf("non-zero exits = %v, want 1", counts["nonzero"])
	}
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.Record(&Summary{Outcome: OutcomeExited, ExitCode: 0, DurationSeconds: 1})

	path := filepath.Join(t.TempDir(), "lxcwrap.prom")
	if err := WriteTextfile(m.Registry(), path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading textfile: %v", err)
	}
	for _, want := range []string{"lxcwrap_launches_total", "lxcwrap_launch_duration_seconds"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q", want)
		}
	}
}
