package supervise

import "fmt"

// State represents the supervisor's view of a single launch.
type State string

const (
	StateIdle      State = "idle"      // No launch in progress
	StateLaunching State = "launching" // Child is being spawned
	StateRunning   State = "running"   // Child is alive, supervisor is waiting
	StateExited    State = "exited"    // Child terminated on its own (any exit code)
	StateFailed    State = "failed"    // Spawn failed or the launch was interrupted
)

// validTransitions maps from-state to allowed to-states
var validTransitions = map[State]map[State]bool{
	StateIdle: {
		StateLaunching: true, // Idle → Launching (request accepted)
	},
	StateLaunching: {
		StateRunning: true, // Launching → Running (child spawned)
		StateFailed:  true, // Launching → Failed (executable missing, EACCES, ...)
	},
	StateRunning: {
		StateExited: true, // Running → Exited (child terminated)
		StateFailed: true, // Running → Failed (launch interrupted)
	},
	// Terminal states (no transitions allowed)
	StateExited: {},
	StateFailed: {},
}

// ValidateTransition checks if a state transition is valid
func ValidateTransition(from, to State) error {
	allowed, exists := validTransitions[from]
	if !exists {
		return fmt.Errorf("unknown source state: %s", from)
	}
	if !allowed[to] {
		return fmt.Errorf("invalid transition from %s to %s", from, to)
	}
	return nil
}

// IsTerminal returns true if the state is terminal (no further transitions)
func IsTerminal(state State) bool {
	return state == StateExited || state == StateFailed
}

// machine tracks the lifecycle of one launch. Not safe for concurrent use;
// the supervisor serializes launches, so there is exactly one writer.
type machine struct {
	current State
}

func newMachine() *machine {
	return &machine{current: StateIdle}
}

// advance moves the machine to the next state, enforcing the transition table.
func (m *machine) advance(to State) error {
	if err := ValidateTransition(m.current, to); err != nil {
		return err
	}
	m.current = to
	return nil
}
