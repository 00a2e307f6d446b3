package supervise

import "testing"

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		wantErr bool
	}{
		// Valid transitions
		{"Idle to Launching", StateIdle, StateLaunching, false},
		{"Launching to Running", StateLaunching, StateRunning, false},
		{"Launching to Failed", StateLaunching, StateFailed, false},
		{"Running to Exited", StateRunning, StateExited, false},
		{"Running to Failed", StateRunning, StateFailed, false},

		// Invalid transitions
		{"Idle to Running", StateIdle, StateRunning, true},
		{"Idle to Exited", StateIdle, StateExited, true},
		{"Launching to Exited", StateLaunching, StateExited, true},
		{"Exited to Running", StateExited, StateRunning, true},
		{"Exited to Launching", StateExited, StateLaunching, true},
		{"Failed to Running", StateFailed, StateRunning, true},
		{"Running to Idle", StateRunning, StateIdle, true},

		// Unknown state
		{"Unknown source", State("bogus"), StateRunning, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTransition(%v, %v) error = %v, wantErr %v",
					tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"Exited is terminal", StateExited, true},
		{"Failed is terminal", StateFailed, true},
		{"Idle is not terminal", StateIdle, false},
		{"Launching is not terminal", StateLaunching, false},
		{"Running is not terminal", StateRunning, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTerminal(tt.state); got != tt.expected {
				t.Errorf("IsTerminal(%v) = %v, want %v", tt.state, got, tt.expected)
			}
		})
	}
}

func TestMachineAdvance(t *testing.T) {
	m := newMachine()
	if m.current != StateIdle {
		t.Fatalf("new machine state = %v, want %v", m.current, StateIdle)
	}

	for _, s := range []State{StateLaunching, StateRunning, StateExited} {
		if err := m.advance(s); err != nil {
			t.Fatalf("advance(%v) failed: %v", s, err)
		}
	}

	if err := m.advance(StateRunning); err == nil {
		t.Error("advance out of terminal state should fail")
	}
}
