package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configForce bool

// FileConfig is the on-disk shape of ~/.lxcwrap/config.yaml
type FileConfig struct {
	Runtime struct {
		StartBinary string `yaml:"start_binary"`
		StopBinary  string `yaml:"stop_binary"`
	} `yaml:"runtime"`
	Container struct {
		Name   string `yaml:"name"`
		Config string `yaml:"config"`
	} `yaml:"container"`
	GracePeriod string `yaml:"grace_period"`
	StatusAddr  string `yaml:"status_addr,omitempty"`
	MetricsOut  string `yaml:"metrics_out,omitempty"`
	LogLevel    string `yaml:"log_level"`
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage lxcwrap configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to $HOME/.lxcwrap/config.yaml",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")
}

func defaultFileConfig() FileConfig {
	var cfg FileConfig
	cfg.Runtime.StartBinary = "lxc-start"
	cfg.Runtime.StopBinary = "lxc-stop"
	cfg.GracePeriod = "10s"
	cfg.LogLevel = "info"
	return cfg
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to find home directory: %w", err)
	}

	dir := filepath.Join(home, ".lxcwrap")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	data, err := yaml.Marshal(defaultFileConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	var cfg FileConfig
	cfg.Runtime.StartBinary = viper.GetString("runtime.start_binary")
	cfg.Runtime.StopBinary = viper.GetString("runtime.stop_binary")
	cfg.Container.Name = viper.GetString("container.name")
	cfg.Container.Config = viper.GetString("container.config")
	cfg.GracePeriod = viper.GetString("grace_period")
	cfg.StatusAddr = viper.GetString("status_addr")
	cfg.MetricsOut = viper.GetString("metrics_out")
	cfg.LogLevel = viper.GetString("log_level")

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
