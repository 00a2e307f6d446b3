package supervise

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/psantana5/lxcwrap/internal/observe"
	"github.com/psantana5/lxcwrap/pkg/logging"
)

// DefaultGracePeriod is how long a cancelled child gets between SIGTERM
// and SIGKILL when the request does not say otherwise.
const DefaultGracePeriod = 10 * time.Second

// Request describes a single external command to run. It is immutable once
// handed to Launch. Args is a discrete argv vector; nothing is ever passed
// through a shell.
type Request struct {
	Path string   // Executable path. Must be non-empty.
	Args []string // Arguments, passed literally to the child.
	Dir  string   // Working directory. Empty = inherit.
	Env  []string // Environment. Nil = inherit.

	// Stdout and Stderr receive the child's streams. Nil = inherit the
	// supervisor's own streams.
	Stdout io.Writer
	Stderr io.Writer

	// GracePeriod between SIGTERM and SIGKILL on cancellation.
	// Zero = DefaultGracePeriod.
	GracePeriod time.Duration

	// Notify, when set, is called on every state change with the child PID
	// (0 until the child exists). Called from the launching goroutine.
	Notify func(state State, pid int)
}

// Result is the outcome of one supervised launch. Set once at completion,
// never updated.
type Result struct {
	PID      int           `json:"pid"`
	ExitCode int           `json:"exit_code"`
	State    State         `json:"state"`
	Signal   string        `json:"signal,omitempty"` // Set when the child died to a signal

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration_ns"`

	// Peak child resource usage, sampled best effort while running.
	PeakRSSBytes   uint64  `json:"peak_rss_bytes,omitempty"`
	PeakCPUPercent float64 `json:"peak_cpu_percent,omitempty"`
}

// Err maps a non-zero exit to ErrNonZeroExit so callers can treat every
// failure through a single errors.Is path. Returns nil for exit code 0.
func (r *Result) Err() error {
	if r.ExitCode == 0 {
		return nil
	}
	return fmt.Errorf("%w: code %d", ErrNonZeroExit, r.ExitCode)
}

// Supervisor owns spawning and waiting on exactly one child process at a
// time. Sequential launches reuse the instance; nothing carries over from
// one launch to the next.
type Supervisor struct {
	log *logging.Logger

	mu sync.Mutex // At most one in-flight launch
}

// New creates a supervisor. A nil logger is replaced with an INFO logger.
func New(log *logging.Logger) *Supervisor {
	if log == nil {
		log = logging.NewLogger(logging.INFO, false)
	}
	return &Supervisor{log: log}
}

// Launch runs the requested command synchronously and reports a structured
// result. Non-zero child exits are a Result, not an error; only spawn
// failures and interruption produce a non-nil error.
func (s *Supervisor) Launch(ctx context.Context, req Request) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := newMachine()
	notify := func(state State, pid int) {
		if req.Notify != nil {
			req.Notify(state, pid)
		}
	}

	if req.Path == "" {
		return nil, fmt.Errorf("%w: empty executable path", ErrLaunchFailed)
	}
	m.advance(StateLaunching)
	notify(StateLaunching, 0)

	grace := req.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}

	cmd := exec.Command(req.Path, req.Args...)
	cmd.Dir = req.Dir
	cmd.Env = req.Env
	cmd.Stdout = req.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = req.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	// Own process group so cancellation can signal the child and anything
	// it forked, without touching the supervisor itself.
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
		Pgid:    0,
	}

	timing := observe.NewTiming()

	if err := cmd.Start(); err != nil {
		m.advance(StateFailed)
		notify(StateFailed, 0)
		return nil, fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}

	pid := cmd.Process.Pid
	m.advance(StateRunning)
	notify(StateRunning, pid)
	s.log.Info("child started", map[string]interface{}{"pid": pid, "path": req.Path})

	sampler := observe.NewSampler(pid, 0)
	go sampler.Run()
	defer sampler.Stop()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case waitErr := <-done:
		timing.Complete()
		return s.finish(m, notify, timing, pid, sampler, waitErr)

	case <-ctx.Done():
		s.log.Warn("cancellation requested, terminating child", map[string]interface{}{"pid": pid})
		s.terminate(pid, grace, done)
		timing.Complete()
		m.advance(StateFailed)
		notify(StateFailed, pid)

		peakRSS, peakCPU := sampler.Peak()
		res := &Result{
			PID:            pid,
			ExitCode:       -1,
			State:          StateFailed,
			StartTime:      timing.StartedAt,
			EndTime:        timing.CompletedAt,
			Duration:       timing.Duration(),
			PeakRSSBytes:   peakRSS,
			PeakCPUPercent: peakCPU,
		}
		return res, fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
	}
}

// finish builds the terminal Result after the child exited on its own.
func (s *Supervisor) finish(m *machine, notify func(State, int), timing *observe.Timing, pid int, sampler *observe.Sampler, waitErr error) (*Result, error) {
	peakRSS, peakCPU := sampler.Peak()

	res := &Result{
		PID:            pid,
		State:          StateExited,
		StartTime:      timing.StartedAt,
		EndTime:        timing.CompletedAt,
		Duration:       timing.Duration(),
		PeakRSSBytes:   peakRSS,
		PeakCPUPercent: peakCPU,
	}

	if waitErr != nil {
		exitErr, ok := waitErr.(*exec.ExitError)
		if !ok {
			// Wait itself broke (I/O error on the pipes, not the child).
			m.advance(StateFailed)
			notify(StateFailed, pid)
			res.State = StateFailed
			res.ExitCode = -1
			return res, fmt.Errorf("wait: %w", waitErr)
		}

		res.ExitCode = exitErr.ExitCode()
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			sig := status.Signal()
			res.Signal = signalName(sig)
			// Shell convention, gives the CLI a propagatable code.
			res.ExitCode = 128 + int(sig)
		}
	}

	m.advance(StateExited)
	notify(StateExited, pid)
	s.log.Info("child exited", map[string]interface{}{
		"pid":      pid,
		"exit":     res.ExitCode,
		"duration": res.Duration.Seconds(),
	})
	return res, nil
}

// terminate signals the child's process group: SIGTERM, then SIGKILL after
// the grace period. Always reaps the child via the done channel so no
// zombie is left behind.
func (s *Supervisor) terminate(pid int, grace time.Duration, done <-chan error) {
	syscall.Kill(-pid, syscall.SIGTERM)

	select {
	case <-done:
		return
	case <-time.After(grace):
	}

	s.log.Warn("grace period expired, killing child", map[string]interface{}{"pid": pid})
	syscall.Kill(-pid, syscall.SIGKILL)
	<-done
}

// signalName returns the name for the signals a runtime child commonly
// dies to.
func signalName(sig syscall.Signal) string {
	switch sig {
	case syscall.SIGKILL:
		return "SIGKILL"
	case syscall.SIGTERM:
		return "SIGTERM"
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGHUP:
		return "SIGHUP"
	case syscall.SIGQUIT:
		return "SIGQUIT"
	case syscall.SIGABRT:
		return "SIGABRT"
	case syscall.SIGSEGV:
		return "SIGSEGV"
	case syscall.SIGPIPE:
		return "SIGPIPE"
	default:
		return fmt.Sprintf("SIG%d", sig)
	}
}
