package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/psantana5/lxcwrap/internal/lxc"
	"github.com/psantana5/lxcwrap/internal/report"
	"github.com/psantana5/lxcwrap/internal/supervise"
)

var (
	stopName    string
	stopBinary  string
	stopTimeout time.Duration
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running container",
	Long: `Stop runs lxc-stop for the named container under the supervisor and
exits with its exit code.

Example:
  lxcwrap stop --name web
  lxcwrap stop --name web --timeout 30s`,
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)

	stopCmd.Flags().StringVar(&stopName, "name", "", "container name")
	stopCmd.Flags().StringVar(&stopBinary, "stop-bin", "", "stop binary (default lxc-stop)")
	stopCmd.Flags().DurationVar(&stopTimeout, "timeout", 0, "how long lxc-stop waits before hard-stopping the container")
}

func runStop(cmd *cobra.Command, args []string) error {
	log := newLogger()

	name := setting(stopName, "container.name")

	rt := lxc.Runtime{
		StartBinary: setting("", "runtime.start_binary"),
		StopBinary:  setting(stopBinary, "runtime.stop_binary"),
	}

	req, err := rt.Stop(name, stopTimeout)
	if err != nil {
		return err
	}
	req.GracePeriod = resolveGracePeriod()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	sup := supervise.New(log)
	res, launchErr := sup.Launch(ctx, req)

	sum := report.NewSummary(name, rt.StopBinary, res, launchErr)
	log.Info(sum.LogLine())

	os.Exit(exitCodeFor(sum))
	return nil
}
