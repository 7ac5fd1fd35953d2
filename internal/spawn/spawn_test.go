package spawn

import (
	"bytes"
	"path/filepath"
	"runtime"
	"testing"
)

func TestNewRejectsEmpty(t *testing.T) {
	for _, argv := range [][]string{nil, {}, {""}} {
		if _, err := New(argv, nil); err == nil {
			t.Errorf("New(%q) should fail", argv)
		}
	}
}

func TestNewCopiesArgs(t *testing.T) {
	argv := []string{"/bin/true", "a"}
	c, err := New(argv, nil)
	if err != nil {
		t.Fatal(err)
	}
	argv[1] = "mutated"
	if c.args[0] != "a" {
		t.Errorf("args aliased caller slice: %v", c.args)
	}
}

func TestSuspendMissingBinary(t *testing.T) {
	c, err := New([]string{filepath.Join(t.TempDir(), "no-such-binary")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Suspend(); err == nil {
		t.Error("expected start error for missing binary")
	}
}

func TestSuspendStartsDetached(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no /bin/sh")
	}
	c, err := New([]string{"/bin/sh", "-c", "exit 0"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Suspend(); err != nil {
		t.Fatalf("Suspend: %v", err)
	}
}

func TestDryRun(t *testing.T) {
	var buf bytes.Buffer
	d := DryRun{W: &buf}
	if err := d.Suspend(); err != nil {
		t.Fatal(err)
	}
	if err := d.Suspend(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "sleeping\nsleeping\n" {
		t.Errorf("output = %q", got)
	}
}
