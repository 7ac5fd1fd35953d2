package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gitlab.com/tinyland/lab/dwmstatus/collectors"
	"gitlab.com/tinyland/lab/dwmstatus/config"
	"gitlab.com/tinyland/lab/dwmstatus/display/sink"
)

// runDiagnostics runs every configured collector on its own, then checks the
// PID file and the sink, printing one line per check to w. Nothing on disk
// is changed. It returns the number of failed checks.
func runDiagnostics(ctx context.Context, cfg *config.Config, w io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	failed := 0
	check := func(ok bool, label, detail string) {
		mark := green("ok  ")
		if !ok {
			mark = red("FAIL")
			failed++
		}
		fmt.Fprintf(w, "  %s %-10s %s\n", mark, label, detail)
	}

	fmt.Fprintln(w, bold("dwmstatus diagnostics"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, bold("Collectors"))
	for _, c := range buildRegistry(cfg, nil).All() {
		r := &collectors.Reading{BatteryState: collectors.BatteryUnknown}
		if err := c.Collect(ctx, r); err != nil {
			check(false, c.Name(), err.Error())
			continue
		}
		detail := c.Description() + ": " + summarize(c.Name(), r)
		if len(r.Warnings) > 0 {
			detail = c.Description() + ": " + strings.Join(r.Warnings, "; ")
		}
		check(len(r.Warnings) == 0, c.Name(), detail)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, bold("Runtime"))
	pidFile := resolvePIDFile(cfg.PIDFile)
	switch state, pid := readPIDFile(pidFile); state {
	case pidRunning:
		check(true, "instance", fmt.Sprintf("running (PID %d, %s)", pid, pidFile))
	case pidStale:
		check(true, "instance", fmt.Sprintf("not running (stale PID %d in %s)", pid, pidFile))
	case pidCorrupt:
		check(false, "instance", "corrupt PID file "+pidFile)
	default:
		check(true, "instance", "not running ("+pidFile+")")
	}

	switch cfg.Sink {
	case config.SinkXRoot:
		display := cfg.Display
		if display == "" {
			display = os.Getenv("DISPLAY")
		}
		x, err := sink.NewXRoot(cfg.Display)
		if err == nil {
			x.Close()
		}
		check(err == nil, "x display", describe(display, "connected", err))
	default:
		check(true, "sink", cfg.Sink)
	}

	if cfg.Suspend.Enabled && !cfg.Suspend.DryRun {
		_, err := os.Stat(cfg.Suspend.Command[0])
		check(err == nil, "suspend", describe(cfg.Suspend.Command[0], "present", err))
	}

	return failed
}

// summarize renders the fields collector name filled in r.
func summarize(name string, r *collectors.Reading) string {
	switch name {
	case "cpu":
		return fmt.Sprintf("busy %d of %d jiffies", r.CPU.Busy(), r.CPU.Total())
	case "freq":
		return fmt.Sprintf("%.1f GHz", collectors.FrequencyGHz(r.FreqRaw))
	case "memory":
		return fmt.Sprintf("%d/%d bytes buffered", r.Mem.Buffers, r.Mem.Total)
	case "link":
		return fmt.Sprintf("%q", r.Link)
	case "battery":
		return fmt.Sprintf("%s %.0f/%.0f", r.BatteryState, r.BatteryNow, r.BatteryFull)
	default:
		return "ok"
	}
}

// describe renders "path: value" or "path: error".
func describe(path, value string, err error) string {
	if err != nil {
		return fmt.Sprintf("%s: %v", path, err)
	}
	return fmt.Sprintf("%s: %s", path, value)
}
