package observe

import (
	"os"
	"testing"
	"time"
)

func TestTimingDuration(t *testing.T) {
	timing := NewTiming()
	if timing.StartedAt.IsZero() {
		t.Fatal("StartedAt not set")
	}

	// Before completion, duration is time since start
	if timing.Duration() < 0 {
		t.Error("running duration should not be negative")
	}

	timing.Complete()
	d := timing.Duration()
	if d != timing.CompletedAt.Sub(timing.StartedAt) {
		t.Errorf("Duration = %v, want CompletedAt-StartedAt", d)
	}
}

func TestSamplerSelf(t *testing.T) {
	s := NewSampler(os.Getpid(), 10*time.Millisecond)
	go s.Run()

	time.Sleep(100 * time.Millisecond)
	s.Stop()

	rss, _ := s.Peak()
	if rss == 0 {
		t.Error("peak RSS of the test process should be non-zero")
	}
}

func TestSamplerStopTwice(t *testing.T) {
	s := NewSampler(os.Getpid(), time.Millisecond)
	s.Stop()
	s.Stop() // must not panic
}
