package observe

import (
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// DefaultSampleInterval is how often the child is polled.
const DefaultSampleInterval = 2 * time.Second

// Sampler polls a child process for resource usage while it runs and keeps
// the peak values. Everything here is best effort: a sampling failure must
// never affect the launch itself.
type Sampler struct {
	pid      int32
	interval time.Duration

	mu      sync.Mutex
	peakRSS uint64
	peakCPU float64

	stop chan struct{}
	once sync.Once
}

// NewSampler creates a sampler for pid. interval <= 0 uses the default.
func NewSampler(pid int, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Sampler{
		pid:      int32(pid),
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Run polls until Stop is called or the process disappears.
// Call in a goroutine.
func (s *Sampler) Run() {
	proc, err := process.NewProcess(s.pid)
	if err != nil {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if !s.sample(proc) {
				return
			}
		}
	}
}

// sample takes one reading. Returns false once the process is gone.
func (s *Sampler) sample(proc *process.Process) bool {
	running, err := proc.IsRunning()
	if err != nil || !running {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
		if mem.RSS > s.peakRSS {
			s.peakRSS = mem.RSS
		}
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		if cpu > s.peakCPU {
			s.peakCPU = cpu
		}
	}
	return true
}

// Stop ends polling. Safe to call more than once.
func (s *Sampler) Stop() {
	s.once.Do(func() { close(s.stop) })
}

// Peak returns the highest RSS (bytes) and CPU percent observed so far.
func (s *Sampler) Peak() (rss uint64, cpuPercent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peakRSS, s.peakCPU
}
