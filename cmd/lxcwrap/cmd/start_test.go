package cmd

import (
	"testing"

	"github.com/psantana5/lxcwrap/internal/report"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name     string
		summary  *report.Summary
		expected int
	}{
		{"clean exit", &report.Summary{Outcome: report.OutcomeExited, ExitCode: 0}, 0},
		{"container failed", &report.Summary{Outcome: report.OutcomeExited, ExitCode: 1}, 1},
		{"command not found", &report.Summary{Outcome: report.OutcomeExited, ExitCode: 127}, 127},
		{"spawn failure", &report.Summary{Outcome: report.OutcomeLaunchFailed, ExitCode: -1}, 125},
		{"interrupted", &report.Summary{Outcome: report.OutcomeInterrupted, ExitCode: -1}, 130},
		{"unknown negative code", &report.Summary{Outcome: report.OutcomeExited, ExitCode: -1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.summary); got != tt.expected {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.expected)
			}
		})
	}
}
