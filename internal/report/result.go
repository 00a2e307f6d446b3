package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/psantana5/lxcwrap/internal/supervise"
)

// Outcome labels for a finished launch. These feed the metrics and the
// one-line log summary; keep them stable.
const (
	OutcomeExited       = "exited"
	OutcomeLaunchFailed = "launch_failed"
	OutcomeInterrupted  = "interrupted"
)

// Summary is the immutable record of one supervised launch. Built once at
// completion from the supervisor's Result, never updated afterwards.
type Summary struct {
	Container string `json:"container"`
	Runtime   string `json:"runtime"`
	Outcome   string `json:"outcome"`

	PID      int    `json:"pid,omitempty"`
	ExitCode int    `json:"exit_code"`
	Signal   string `json:"signal,omitempty"`

	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds float64   `json:"duration_seconds"`

	PeakRSSBytes   uint64  `json:"peak_rss_bytes,omitempty"`
	PeakCPUPercent float64 `json:"peak_cpu_percent,omitempty"`

	Error string `json:"error,omitempty"`
}

// NewSummary freezes a supervisor result into a Summary. res may be nil
// when the launch never got off the ground.
func NewSummary(container, runtime string, res *supervise.Result, launchErr error) *Summary {
	s := &Summary{
		Container: container,
		Runtime:   runtime,
		Outcome:   OutcomeExited,
	}

	if launchErr != nil {
		s.Error = launchErr.Error()
		s.Outcome = outcomeForError(launchErr)
	}

	if res == nil {
		s.ExitCode = -1
		return s
	}

	s.PID = res.PID
	s.ExitCode = res.ExitCode
	s.Signal = res.Signal
	s.StartTime = res.StartTime
	s.EndTime = res.EndTime
	s.DurationSeconds = res.Duration.Seconds()
	s.PeakRSSBytes = res.PeakRSSBytes
	s.PeakCPUPercent = res.PeakCPUPercent
	return s
}

// LogLine is the one-line summary ops grep for. Format is stable.
func (s *Summary) LogLine() string {
	return fmt.Sprintf("LAUNCH %s | runtime=%s | outcome=%s | exit=%d | runtime_secs=%.1f | pid=%d",
		s.Container,
		s.Runtime,
		s.Outcome,
		s.ExitCode,
		s.DurationSeconds,
		s.PID,
	)
}

func outcomeForError(err error) string {
	switch {
	case errors.Is(err, supervise.ErrInterrupted):
		return OutcomeInterrupted
	case errors.Is(err, supervise.ErrLaunchFailed):
		return OutcomeLaunchFailed
	default:
		return OutcomeLaunchFailed
	}
}
