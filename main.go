// dwmstatus produces the dwm status bar text.
//
// Once per interval it reads CPU counters, battery charge and state, the
// wireless link name, buffer memory and CPU frequency, formats them into one
// line and publishes it to the X root window title, stdout or a TUI. On a
// critically low, discharging battery the line turns into a warning and an
// optional suspend command runs after a countdown.
//
// Usage:
//
//	dwmstatus [--config file] [--debug] [--sink xroot|stdout|tui]
//	dwmstatus once
//	dwmstatus config [--write]
//	dwmstatus diagnose
//	dwmstatus health [--json]
//	dwmstatus keys
//	dwmstatus man
//	dwmstatus version
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/dwmstatus/config"
	termcolor "gitlab.com/tinyland/lab/dwmstatus/display/color"
	"gitlab.com/tinyland/lab/dwmstatus/display/sink"
	"gitlab.com/tinyland/lab/dwmstatus/display/tui"
	"gitlab.com/tinyland/lab/dwmstatus/docs/manpage"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	debug      bool
	sink       string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "dwmstatus",
		Short:         "Status line producer for dwm",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoop(opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to configuration file (default: "+config.DefaultPath()+")")
	flags.BoolVar(&opts.debug, "debug", false, "print to stdout and dry-run suspend")
	flags.StringVar(&opts.sink, "sink", "", "override the sink: xroot, stdout or tui")

	root.AddCommand(
		newOnceCmd(opts),
		newConfigCmd(opts),
		newDiagnoseCmd(opts),
		newHealthCmd(opts),
		newKeysCmd(),
		newManCmd(),
		newVersionCmd(),
	)
	return root
}

func newOnceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Sample twice one interval apart and print a single line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger, closeLog, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, cancel := signalContext()
			defer cancel()

			out := sink.NewStdout(cmd.OutOrStdout(), termcolor.Profile(cfg.Color, os.Stdout.Fd()))
			d := newDaemon(cfg, logger, out, nil)
			_, err = d.once(ctx)
			return err
		},
	}
}

func newConfigCmd(opts *options) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if write {
				path := opts.configPath
				if path == "" {
					path = config.DefaultPath()
				}
				if err := config.SaveConfig(cfg, path); err != nil {
					return fmt.Errorf("write config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", green("ok"), path)
				return nil
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "save the effective configuration to the config path")
	return cmd
}

func newDiagnoseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Check every configured source and the selected sink",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if failed := runDiagnostics(cmd.Context(), cfg, cmd.OutOrStdout()); failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}

func newHealthCmd(opts *options) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Report whether a running loop ticked recently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			path := healthPath(resolvePIDFile(cfg.PIDFile))
			if code := checkHealth(cmd.OutOrStdout(), path, cfg.PollInterval(), jsonOutput); code != 0 {
				return fmt.Errorf("unhealthy")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the TUI key bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bindings := tui.Bindings()
			fmt.Fprint(cmd.OutOrStdout(), tui.FormatBindings(bindings))
			if conflicts := tui.DuplicateKeys(bindings); len(conflicts) > 0 {
				for _, c := range conflicts {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", red("conflict:"), c)
				}
				return fmt.Errorf("%d conflicting key binding(s)", len(conflicts))
			}
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "man",
		Short: "Print the man page in roff format",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), manpage.Generate(version, commit, date))
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dwmstatus %s (%s) built %s\n", version, commit, date)
		},
	}
}

// loadConfig reads the configuration file, applies flag overrides and validates.
func loadConfig(opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags overlays command-line overrides on cfg. --debug selects the
// stdout sink and the dry-run suspend; an explicit --sink wins over it.
func applyFlags(cfg *config.Config, opts *options) {
	if opts.debug {
		cfg.Sink = config.SinkStdout
		cfg.Suspend.DryRun = true
	}
	if opts.sink != "" {
		cfg.Sink = opts.sink
	}
}

// newLogger builds a text logger at the configured level. The returned
// function closes the log file, if any.
func newLogger(lc config.LogConfig) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", lc.Level, err)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if lc.File != "" {
		f, err := os.OpenFile(lc.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

// buildSink opens the configured sink. onExit is handed to the TUI so that
// quitting it stops the loop. The X connection is reopened after repeated
// publish failures.
func buildSink(cfg *config.Config, logger *slog.Logger, onExit func()) (sink.Sink, error) {
	switch cfg.Sink {
	case config.SinkXRoot:
		openX := func() (sink.Sink, error) {
			x, err := sink.NewXRoot(cfg.Display)
			if err != nil {
				return nil, err
			}
			return x, nil
		}
		breakerCfg := sink.DefaultBreakerConfig()
		breakerCfg.Logger = logger
		b, err := sink.NewBreaker(openX, breakerCfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.SinkStdout:
		return sink.NewStdout(os.Stdout, termcolor.Profile(cfg.Color, os.Stdout.Fd())), nil
	case config.SinkTUI:
		t, err := tui.NewSink(onExit)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown sink %q", cfg.Sink)
	}
}

// runLoop runs the status loop until a signal arrives or the TUI quits.
func runLoop(opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signalContext()
	defer cancel()

	out, err := buildSink(cfg, logger, cancel)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Error("closing sink", "error", err)
		}
	}()

	suspender, err := buildSuspender(cfg, os.Stdout, logger)
	if err != nil {
		return err
	}

	logger.Info("starting dwmstatus", "version", version, "sink", cfg.Sink)
	return newDaemon(cfg, logger, out, suspender).run(ctx)
}
