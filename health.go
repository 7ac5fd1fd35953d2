package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/dwmstatus/display/statusline"
)

// HealthStatus is the heartbeat the loop writes after every tick.
type HealthStatus struct {
	Status   string      `json:"status"`
	LastTick time.Time   `json:"last_tick"`
	Text     string      `json:"text"`
	Warnings []string    `json:"warnings,omitempty"`
	Sink     *SinkHealth `json:"sink,omitempty"`
}

// SinkHealth reports a reconnecting sink's breaker.
type SinkHealth struct {
	State   string `json:"state"`
	Dropped int    `json:"dropped"`
}

// healthPath returns the heartbeat path for the given PID file: the same
// name with the .pid suffix replaced, so per-user PID files get per-user
// heartbeats.
func healthPath(pidFile string) string {
	return strings.TrimSuffix(pidFile, ".pid") + ".health.json"
}

// writeHealthFile records frame as the latest tick. The data goes to a
// fresh temp file in the same directory, which then replaces path, so
// readers never see a partial write and no fixed name is ever opened.
func writeHealthFile(path string, frame statusline.Frame, warnings []string, sinkHealth *SinkHealth) error {
	status := HealthStatus{
		Status:   frame.Decision.State.String(),
		LastTick: frame.Timestamp,
		Text:     frame.Text,
		Warnings: warnings,
		Sink:     sinkHealth,
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal health status: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".dwmstatus-health-*")
	if err != nil {
		return fmt.Errorf("create health file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write health file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write health file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace health file: %w", err)
	}
	return nil
}

// readHealthFile reads the heartbeat at path.
func readHealthFile(path string) (*HealthStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read health file: %w", err)
	}

	var status HealthStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("unmarshal health file: %w", err)
	}

	return &status, nil
}

// checkHealth reports whether the loop ticked within three intervals.
// Returns exit code 0 for healthy, 1 for stale or missing.
func checkHealth(w io.Writer, path string, interval time.Duration, jsonOutput bool) int {
	status, err := readHealthFile(path)
	if err != nil {
		if jsonOutput {
			fmt.Fprintln(w, `{"status":"missing","error":"no health file found"}`)
		} else {
			fmt.Fprintf(w, "%s dwmstatus not running (no health file at %s)\n", red("FAIL"), path)
		}
		return 1
	}

	staleThreshold := 3 * interval
	age := time.Since(status.LastTick)
	isStale := age > staleThreshold

	if jsonOutput {
		output := map[string]interface{}{
			"status":    status.Status,
			"last_tick": status.LastTick.Format(time.RFC3339),
			"age":       age.String(),
			"stale":     isStale,
			"text":      status.Text,
			"warnings":  status.Warnings,
		}
		if status.Sink != nil {
			output["sink"] = status.Sink
		}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(w, string(data))
	} else if isStale {
		fmt.Fprintf(w, "%s dwmstatus stale (last tick %s ago, threshold %s)\n",
			red("FAIL"), age.Round(time.Second), staleThreshold)
	} else {
		fmt.Fprintf(w, "%s dwmstatus %s (last tick %s ago)\n", green("ok"), status.Status, age.Round(time.Millisecond))
		fmt.Fprintf(w, "  %s\n", status.Text)
		if status.Sink != nil {
			fmt.Fprintf(w, "  sink: %s (%d frames dropped)\n", status.Sink.State, status.Sink.Dropped)
		}
		for _, warning := range status.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warning)
		}
	}

	if isStale {
		return 1
	}
	return 0
}
