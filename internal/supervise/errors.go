package supervise

import "errors"

// Error kinds surfaced by Launch. Callers match with errors.Is and decide
// policy themselves; the supervisor never retries.
var (
	// ErrLaunchFailed means the child could never be spawned: empty
	// executable path, binary not found, or permission denied.
	ErrLaunchFailed = errors.New("launch failed")

	// ErrNonZeroExit means the child ran to completion but reported failure.
	// Launch itself returns a Result for this case; the sentinel is exposed
	// through Result.Err for callers that want a single error path.
	ErrNonZeroExit = errors.New("non-zero exit")

	// ErrInterrupted means the supervisor was cancelled mid-run and the
	// child was terminated before exiting on its own.
	ErrInterrupted = errors.New("launch interrupted")
)
