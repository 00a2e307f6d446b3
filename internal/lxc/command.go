package lxc

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/psantana5/lxcwrap/internal/supervise"
)

// Default binary names, resolved through PATH. Both are injectable so tests
// and unprivileged runs can substitute a stub executable.
const (
	DefaultStartBinary = "lxc-start"
	DefaultStopBinary  = "lxc-stop"
)

// Runtime describes which LXC binaries to invoke. The zero value is not
// usable; construct with DefaultRuntime or fill both fields.
type Runtime struct {
	StartBinary string
	StopBinary  string
}

// DefaultRuntime returns a runtime using the standard lxc utilities.
func DefaultRuntime() Runtime {
	return Runtime{
		StartBinary: DefaultStartBinary,
		StopBinary:  DefaultStopBinary,
	}
}

// Start builds the launch request for starting a container in the
// foreground: lxc-start -f <config> -n <name> -F. Foreground mode is what
// lets the supervisor own the container's lifetime.
func (r Runtime) Start(name, configPath string) (supervise.Request, error) {
	if err := validateName(name); err != nil {
		return supervise.Request{}, err
	}
	if configPath == "" {
		return supervise.Request{}, fmt.Errorf("container config path is required")
	}
	if _, err := os.Stat(configPath); err != nil {
		return supervise.Request{}, fmt.Errorf("container config %s: %w", configPath, err)
	}
	if r.StartBinary == "" {
		return supervise.Request{}, fmt.Errorf("start binary is not configured")
	}

	return supervise.Request{
		Path: r.StartBinary,
		Args: []string{"-f", configPath, "-n", name, "-F"},
	}, nil
}

// Stop builds the request for stopping a running container:
// lxc-stop -n <name> [-t <seconds>]. A zero timeout lets lxc-stop use its
// own default.
func (r Runtime) Stop(name string, timeout time.Duration) (supervise.Request, error) {
	if err := validateName(name); err != nil {
		return supervise.Request{}, err
	}
	if r.StopBinary == "" {
		return supervise.Request{}, fmt.Errorf("stop binary is not configured")
	}

	args := []string{"-n", name}
	if timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(timeout.Seconds())))
	}

	return supervise.Request{
		Path: r.StopBinary,
		Args: args,
	}, nil
}

// validateName enforces the lxc container naming rules we rely on. Names
// become paths under /var/lib/lxc, so separators and whitespace are out.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("container name is required")
	}
	if strings.ContainsAny(name, "/\\ \t\n") {
		return fmt.Errorf("invalid container name %q", name)
	}
	return nil
}
