package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/lxcwrap/pkg/logging"
)

var (
	cfgFile    string
	logLevel   string
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lxcwrap",
	Short: "Supervised launcher for LXC containers",
	Long: `lxcwrap starts a single LXC container in the foreground and supervises
the runtime process: it spawns lxc-start directly (no shell), forwards its
output, waits for it to exit and propagates the exit code. A SIGINT or
SIGTERM to lxcwrap stops the container cleanly instead of orphaning it.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lxcwrap/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output the launch report as JSON")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".lxcwrap"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("lxcwrap")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("runtime.start_binary", "lxc-start")
	viper.SetDefault("runtime.stop_binary", "lxc-stop")
	viper.SetDefault("grace_period", "10s")
	viper.SetDefault("log_level", "info")

	// Missing config file is fine, the defaults above apply
	viper.ReadInConfig()
}

// newLogger builds the CLI logger from --log-level or the config file
func newLogger() *logging.Logger {
	level := logLevel
	if level == "" {
		level = viper.GetString("log_level")
	}
	return logging.NewLogger(logging.ParseLevel(level), false)
}

// setting returns flagValue unless empty, then the viper key
func setting(flagValue, key string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString(key)
}
