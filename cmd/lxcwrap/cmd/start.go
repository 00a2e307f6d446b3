package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/psantana5/lxcwrap/internal/lxc"
	"github.com/psantana5/lxcwrap/internal/report"
	"github.com/psantana5/lxcwrap/internal/status"
	"github.com/psantana5/lxcwrap/internal/supervise"
)

var (
	startName      string
	startLXCConfig string
	startBinary    string
	gracePeriod    time.Duration
	statusAddr     string
	metricsOut     string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a container and supervise the runtime process",
	Long: `Start runs lxc-start in the foreground under the supervisor. The
container's stdout/stderr are forwarded, and lxcwrap exits with the
runtime's exit code: 0 on clean shutdown, the child's code on failure,
125 when the runtime could not be spawned, 130 when interrupted.

Example:
  lxcwrap start --name web --lxc-config /etc/lxc/web.conf
  lxcwrap start --name web --lxc-config web.conf --status-addr :9311
  lxcwrap start --name web --lxc-config web.conf --metrics-out /var/lib/node_exporter/lxcwrap.prom`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVar(&startName, "name", "", "container name")
	startCmd.Flags().StringVar(&startLXCConfig, "lxc-config", "", "path to the container configuration file")
	startCmd.Flags().StringVar(&startBinary, "runtime-bin", "", "container runtime binary (default lxc-start)")
	startCmd.Flags().DurationVar(&gracePeriod, "grace-period", 0, "SIGTERM to SIGKILL delay on interruption")
	startCmd.Flags().StringVar(&statusAddr, "status-addr", "", "serve /status, /healthz and /metrics on this address while running")
	startCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write Prometheus textfile metrics here after the run")
}

func runStart(cmd *cobra.Command, args []string) error {
	log := newLogger()

	name := setting(startName, "container.name")
	configPath := setting(startLXCConfig, "container.config")

	rt := lxc.Runtime{
		StartBinary: setting(startBinary, "runtime.start_binary"),
		StopBinary:  setting("", "runtime.stop_binary"),
	}

	req, err := rt.Start(name, configPath)
	if err != nil {
		return err
	}
	req.GracePeriod = resolveGracePeriod()

	metrics := report.NewMetrics()

	if addr := setting(statusAddr, "status_addr"); addr != "" {
		srv := status.NewServer(addr, name, metrics.Registry(), log)
		srv.Start()
		req.Notify = srv.SetState
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	// A signal to lxcwrap cancels the launch; the supervisor turns that
	// into a clean SIGTERM/SIGKILL sequence for the container.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn("signal received, stopping container")
		cancel()
	}()

	sup := supervise.New(log)
	res, launchErr := sup.Launch(ctx, req)

	sum := report.NewSummary(name, rt.StartBinary, res, launchErr)
	metrics.Record(sum)

	if out := setting(metricsOut, "metrics_out"); out != "" {
		if err := report.WriteTextfile(metrics.Registry(), out); err != nil {
			log.Error("metrics textfile export failed", map[string]interface{}{"error": err.Error()})
		}
	}

	log.Info(sum.LogLine())
	if err := printSummary(sum); err != nil {
		return err
	}

	os.Exit(exitCodeFor(sum))
	return nil
}

func resolveGracePeriod() time.Duration {
	if gracePeriod > 0 {
		return gracePeriod
	}
	if d, err := time.ParseDuration(setting("", "grace_period")); err == nil && d > 0 {
		return d
	}
	return supervise.DefaultGracePeriod
}

// exitCodeFor maps a launch summary to the CLI exit status. The child's
// failure is our failure: a non-zero container exit is never reported as 0.
func exitCodeFor(sum *report.Summary) int {
	switch sum.Outcome {
	case report.OutcomeLaunchFailed:
		return 125
	case report.OutcomeInterrupted:
		return 130
	}
	if sum.ExitCode >= 0 {
		return sum.ExitCode
	}
	return 1
}

func printSummary(sum *report.Summary) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	table.Append([]string{"Container", sum.Container})
	table.Append([]string{"Runtime", sum.Runtime})
	table.Append([]string{"Outcome", sum.Outcome})
	table.Append([]string{"PID", fmt.Sprintf("%d", sum.PID)})
	table.Append([]string{"Exit Code", fmt.Sprintf("%d", sum.ExitCode)})
	if sum.Signal != "" {
		table.Append([]string{"Signal", sum.Signal})
	}
	table.Append([]string{"Duration", fmt.Sprintf("%.2fs", sum.DurationSeconds)})
	if sum.PeakRSSBytes > 0 {
		table.Append([]string{"Peak RSS", fmt.Sprintf("%d MB", sum.PeakRSSBytes/1024/1024)})
	}
	if sum.Error != "" {
		table.Append([]string{"Error", sum.Error})
	}

	table.Render()
	return nil
}
