// Package config provides configuration parsing for dwmstatus.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Sink names accepted by the sink option.
const (
	SinkXRoot  = "xroot"
	SinkStdout = "stdout"
	SinkTUI    = "tui"
)

// Battery backends accepted by sources.battery_backend.
const (
	BackendSysfs  = "sysfs"
	BackendSystem = "system"
)

// Config represents the dwmstatus configuration.
type Config struct {
	// Interval is a duration string (e.g. "1s") between status updates.
	Interval string `yaml:"interval"`
	// PIDFile is the single-instance lock file. Empty selects a per-user default.
	PIDFile string `yaml:"pid_file"`
	// Sink selects where the status line goes: "xroot", "stdout" or "tui".
	Sink string `yaml:"sink"`
	// Display is the X display name for the xroot sink. Empty uses $DISPLAY.
	Display string `yaml:"display"`
	// Color controls styling of the stdout sink: "auto", "always" or "never".
	Color string `yaml:"color"`
	// DateTimeFormat is a Go time layout for the clock field. Day and month
	// names are always English.
	DateTimeFormat string `yaml:"datetime_format"`

	// Sources holds the paths polled every tick.
	Sources SourcesConfig `yaml:"sources"`
	// Battery holds low-battery guard settings.
	Battery BatteryConfig `yaml:"battery"`
	// Suspend holds the optional suspend action.
	Suspend SuspendConfig `yaml:"suspend"`
	// Log holds logging settings.
	Log LogConfig `yaml:"log"`
}

// SourcesConfig holds sensor source locations.
type SourcesConfig struct {
	// BatteryBackend is "sysfs" (read the three files below) or "system"
	// (enumerate batteries through the platform API).
	BatteryBackend string `yaml:"battery_backend"`
	// BatteryIndex selects the battery for the system backend.
	BatteryIndex int `yaml:"battery_index"`
	// BatteryNow is the current charge file.
	BatteryNow string `yaml:"battery_now"`
	// BatteryFull is the full charge file, same unit as BatteryNow.
	BatteryFull string `yaml:"battery_full"`
	// BatteryStatus is the status file; only its first byte is read.
	BatteryStatus string `yaml:"battery_status"`
	// Link is the wireless link name file.
	Link string `yaml:"link"`
	// LinkMax is the maximum number of bytes kept from Link.
	LinkMax int `yaml:"link_max"`
	// CPUFreq is the CPU frequency file.
	CPUFreq string `yaml:"cpu_freq"`
	// ProcStat is the kernel CPU counter file.
	ProcStat string `yaml:"proc_stat"`
}

// BatteryConfig holds low-battery guard settings.
type BatteryConfig struct {
	// Threshold is the percentage below which a discharging battery is low.
	Threshold float64 `yaml:"threshold"`
	// Timeout is the number of ticks spent low before suspending.
	Timeout int `yaml:"timeout"`
}

// SuspendConfig holds the optional suspend command.
type SuspendConfig struct {
	// Enabled arms the suspend countdown while the battery is low.
	Enabled bool `yaml:"enabled"`
	// Command is the executable path followed by its arguments.
	Command []string `yaml:"command"`
	// DryRun prints "sleeping" instead of running Command.
	DryRun bool `yaml:"dry_run"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level"`
	// File is the log destination. Empty logs to stderr.
	File string `yaml:"file"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Interval:       "1s",
		PIDFile:        "",
		Sink:           SinkXRoot,
		Display:        "",
		Color:          "auto",
		DateTimeFormat: "Mon 02.01.2006 15:04",
		Sources: SourcesConfig{
			BatteryBackend: BackendSysfs,
			BatteryIndex:   0,
			BatteryNow:     "/sys/class/power_supply/BAT0/charge_now",
			BatteryFull:    "/sys/class/power_supply/BAT0/charge_full",
			BatteryStatus:  "/sys/class/power_supply/BAT0/status",
			Link:           "/sys/class/net/wlan0/operstate",
			LinkMax:        8,
			CPUFreq:        "/sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq",
			ProcStat:       "/proc/stat",
		},
		Battery: BatteryConfig{
			Threshold: 5,
			Timeout:   40,
		},
		Suspend: SuspendConfig{
			Enabled: false,
			Command: []string{"/usr/bin/systemctl", "suspend"},
			DryRun:  false,
		},
		Log: LogConfig{
			Level: "warn",
			File:  "",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/dwmstatus/config.yaml, falling back
// to ~/.config/dwmstatus/config.yaml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "dwmstatus", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "dwmstatus", "config.yaml")
}

// LoadConfig loads configuration from a YAML file, merging with defaults.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return config, nil
}

// PollInterval returns the parsed Interval. Callers should Validate first.
func (c *Config) PollInterval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0
	}
	return d
}

// Validate checks the configuration for required fields and logical consistency.
func (c *Config) Validate() error {
	if c.Interval == "" {
		return fmt.Errorf("interval is required")
	}
	if d, err := time.ParseDuration(c.Interval); err != nil || d <= 0 {
		return fmt.Errorf("interval must be a positive duration, got %q", c.Interval)
	}

	switch c.Sink {
	case SinkXRoot, SinkStdout, SinkTUI:
	default:
		return fmt.Errorf("sink must be 'xroot', 'stdout', or 'tui', got %q", c.Sink)
	}

	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be 'auto', 'always', or 'never', got %q", c.Color)
	}

	if c.DateTimeFormat == "" {
		return fmt.Errorf("datetime_format is required")
	}

	switch c.Sources.BatteryBackend {
	case BackendSysfs:
		if c.Sources.BatteryNow == "" || c.Sources.BatteryFull == "" || c.Sources.BatteryStatus == "" {
			return fmt.Errorf("sources.battery_now, battery_full and battery_status are required for the sysfs backend")
		}
	case BackendSystem:
		if c.Sources.BatteryIndex < 0 {
			return fmt.Errorf("sources.battery_index must be non-negative, got %d", c.Sources.BatteryIndex)
		}
	default:
		return fmt.Errorf("sources.battery_backend must be 'sysfs' or 'system', got %q", c.Sources.BatteryBackend)
	}

	if c.Sources.LinkMax <= 0 {
		return fmt.Errorf("sources.link_max must be positive, got %d", c.Sources.LinkMax)
	}
	if c.Sources.ProcStat == "" {
		return fmt.Errorf("sources.proc_stat is required")
	}

	if c.Battery.Threshold <= 0 || c.Battery.Threshold > 100 {
		return fmt.Errorf("battery.threshold must be in (0, 100], got %v", c.Battery.Threshold)
	}
	if c.Battery.Timeout <= 0 {
		return fmt.Errorf("battery.timeout must be positive, got %d", c.Battery.Timeout)
	}

	if c.Suspend.Enabled && !c.Suspend.DryRun && len(c.Suspend.Command) == 0 {
		return fmt.Errorf("suspend.command is required when suspend is enabled")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got %q", c.Log.Level)
	}

	return nil
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
