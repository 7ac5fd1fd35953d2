package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/dwmstatus/display/statusline"
	"gitlab.com/tinyland/lab/dwmstatus/status"
)

func testFrame(ts time.Time) statusline.Frame {
	return statusline.Frame{
		Text:      "LOW BATTERY: remaining 3.0% suspending after 40 ",
		Low:       true,
		Decision:  status.Decision{State: status.StateLow, Percent: 3},
		Timestamp: ts,
	}
}

func TestHealthPath(t *testing.T) {
	tests := []struct {
		pidFile string
		want    string
	}{
		{"/run/user/1000/dwmstatus.pid", "/run/user/1000/dwmstatus.health.json"},
		{"/tmp/dwmstatus-1000.pid", "/tmp/dwmstatus-1000.health.json"},
		{"/var/run/status.lock", "/var/run/status.lock.health.json"},
	}
	for _, tt := range tests {
		if got := healthPath(tt.pidFile); got != tt.want {
			t.Errorf("healthPath(%q) = %q, want %q", tt.pidFile, got, tt.want)
		}
	}
}

func TestHealthPath_PerUserWithoutRuntimeDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", "")
	t.Setenv("TMPDIR", tmp)

	want := filepath.Join(tmp, "dwmstatus-"+strconv.Itoa(os.Getuid())+".health.json")
	if got := healthPath(resolvePIDFile("")); got != want {
		t.Errorf("heartbeat path = %q, want %q", got, want)
	}
}

func TestWriteHealthFile_DoesNotFollowSymlinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dwmstatus.health.json")
	victim := filepath.Join(dir, "victim")
	if err := os.WriteFile(victim, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, link := range []string{path + ".tmp", path} {
		if err := os.Symlink(victim, link); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}
	}

	if err := writeHealthFile(path, testFrame(time.Now()), nil, nil); err != nil {
		t.Fatalf("writeHealthFile: %v", err)
	}

	if data, _ := os.ReadFile(victim); string(data) != "keep" {
		t.Errorf("symlink target overwritten: %q", data)
	}
	if fi, err := os.Lstat(path); err != nil || fi.Mode()&os.ModeSymlink != 0 {
		t.Errorf("heartbeat is not a regular file: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".dwmstatus-health-") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestWriteHealthFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dwmstatus.health.json")
	now := time.Now()

	if err := writeHealthFile(path, testFrame(now), []string{"sysmetrics: link: missing"}, nil); err != nil {
		t.Fatalf("writeHealthFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read health file: %v", err)
	}

	var hs HealthStatus
	if err := json.Unmarshal(data, &hs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if hs.Status != "low" {
		t.Errorf("status = %q, want %q", hs.Status, "low")
	}
	if !hs.LastTick.Equal(now) {
		t.Errorf("last_tick = %v, want %v", hs.LastTick, now)
	}
	if len(hs.Warnings) != 1 {
		t.Errorf("warnings = %v, want 1", hs.Warnings)
	}
}

func TestReadHealthFile_Missing(t *testing.T) {
	if _, err := readHealthFile(filepath.Join(t.TempDir(), "dwmstatus.health.json")); err == nil {
		t.Error("expected error for missing health file")
	}
}

func TestReadHealthFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dwmstatus.health.json")
	if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readHealthFile(path); err == nil {
		t.Error("expected error for corrupt health file")
	}
}

func TestCheckHealth_Missing(t *testing.T) {
	var buf bytes.Buffer
	code := checkHealth(&buf, filepath.Join(t.TempDir(), "dwmstatus.health.json"), time.Second, false)
	if code != 1 {
		t.Errorf("expected exit code 1 for missing health, got %d", code)
	}
	if !strings.Contains(buf.String(), "not running") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestCheckHealth_Fresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dwmstatus.health.json")
	if err := writeHealthFile(path, testFrame(time.Now()), nil, nil); err != nil {
		t.Fatalf("writeHealthFile: %v", err)
	}

	var buf bytes.Buffer
	code := checkHealth(&buf, path, time.Minute, false)
	if code != 0 {
		t.Errorf("expected exit code 0 for fresh health, got %d", code)
	}
	if !strings.Contains(buf.String(), "LOW BATTERY") {
		t.Errorf("output missing last line: %q", buf.String())
	}
	if strings.Contains(buf.String(), "sink:") {
		t.Errorf("plain sink should not report a breaker: %q", buf.String())
	}
}

func TestCheckHealth_Stale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dwmstatus.health.json")
	if err := writeHealthFile(path, testFrame(time.Now().Add(-time.Hour)), nil, nil); err != nil {
		t.Fatalf("writeHealthFile: %v", err)
	}

	var buf bytes.Buffer
	code := checkHealth(&buf, path, time.Second, false)
	if code != 1 {
		t.Errorf("expected exit code 1 for stale health, got %d", code)
	}
}

func TestCheckHealth_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dwmstatus.health.json")
	if err := writeHealthFile(path, testFrame(time.Now()), []string{"w"}, &SinkHealth{State: "open", Dropped: 4}); err != nil {
		t.Fatalf("writeHealthFile: %v", err)
	}

	var buf bytes.Buffer
	if code := checkHealth(&buf, path, time.Minute, true); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if out["status"] != "low" || out["stale"] != false {
		t.Errorf("unexpected JSON output %v", out)
	}
	sinkOut, ok := out["sink"].(map[string]interface{})
	if !ok || sinkOut["state"] != "open" || sinkOut["dropped"] != float64(4) {
		t.Errorf("sink = %v, want open with 4 dropped", out["sink"])
	}
}
