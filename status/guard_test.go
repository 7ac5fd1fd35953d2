package status

import (
	"errors"
	"testing"

	"gitlab.com/tinyland/lab/dwmstatus/collectors"
)

// fakeSuspender counts Suspend calls.
type fakeSuspender struct {
	calls int
	err   error
}

func (f *fakeSuspender) Suspend() error {
	f.calls++
	return f.err
}

func armedConfig() GuardConfig {
	cfg := DefaultGuardConfig()
	cfg.Suspend = true
	return cfg
}

func TestGuardNormal(t *testing.T) {
	tests := []struct {
		name    string
		state   collectors.BatteryState
		percent float64
	}{
		{"charging low", collectors.BatteryCharging, 2},
		{"full", collectors.BatteryFull, 100},
		{"unknown low", collectors.BatteryUnknown, 1},
		{"discharging at threshold", collectors.BatteryDischarging, 5},
		{"discharging healthy", collectors.BatteryDischarging, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSuspender{}
			g := NewGuard(armedConfig(), s, nil)
			d := g.Observe(tt.state, tt.percent)
			if d.State != StateNormal {
				t.Errorf("State = %v, want normal", d.State)
			}
			if g.timer != 0 || s.calls != 0 {
				t.Errorf("timer = %d, calls = %d", g.timer, s.calls)
			}
		})
	}
}

// TestGuardSuspendsOnceAtTimeout runs 40 low ticks and expects exactly one
// suspend, on the last tick, with the timer back at zero.
func TestGuardSuspendsOnceAtTimeout(t *testing.T) {
	s := &fakeSuspender{}
	g := NewGuard(armedConfig(), s, nil)

	for tick := 1; tick <= 40; tick++ {
		d := g.Observe(collectors.BatteryDischarging, 3)
		if d.State != StateLow {
			t.Fatalf("tick %d: State = %v, want low", tick, d.State)
		}
		if want := 40 - (tick - 1); d.Remaining != want {
			t.Errorf("tick %d: Remaining = %d, want %d", tick, d.Remaining, want)
		}
		if d.Suspended != (tick == 40) {
			t.Errorf("tick %d: Suspended = %v", tick, d.Suspended)
		}
		if tick < 40 && g.timer != tick {
			t.Errorf("tick %d: timer = %d", tick, g.timer)
		}
	}

	if s.calls != 1 {
		t.Errorf("suspend calls = %d, want 1", s.calls)
	}
	if g.timer != 0 {
		t.Errorf("timer after suspend = %d, want 0", g.timer)
	}
}

// TestGuardRepeatsWhileLow checks that a persisting LOW state suspends again.
func TestGuardRepeatsWhileLow(t *testing.T) {
	s := &fakeSuspender{}
	g := NewGuard(armedConfig(), s, nil)
	for i := 0; i < 80; i++ {
		g.Observe(collectors.BatteryDischarging, 3)
	}
	if s.calls != 2 {
		t.Errorf("suspend calls after 80 low ticks = %d, want 2", s.calls)
	}
}

func TestGuardChargingResetsTimer(t *testing.T) {
	s := &fakeSuspender{}
	g := NewGuard(armedConfig(), s, nil)

	for i := 0; i < 39; i++ {
		g.Observe(collectors.BatteryDischarging, 3)
	}
	if g.timer != 39 {
		t.Fatalf("timer = %d, want 39", g.timer)
	}

	if d := g.Observe(collectors.BatteryCharging, 3); d.State != StateNormal {
		t.Errorf("State = %v, want normal", d.State)
	}
	if g.timer != 0 {
		t.Errorf("timer after charging = %d, want 0", g.timer)
	}

	d := g.Observe(collectors.BatteryDischarging, 3)
	if d.Remaining != 40 || s.calls != 0 {
		t.Errorf("Remaining = %d, calls = %d after reset", d.Remaining, s.calls)
	}
}

func TestGuardSuspendDisabled(t *testing.T) {
	s := &fakeSuspender{}
	g := NewGuard(DefaultGuardConfig(), s, nil)

	for i := 0; i < 100; i++ {
		d := g.Observe(collectors.BatteryDischarging, 3)
		if d.State != StateLow || d.SuspendArmed {
			t.Fatalf("tick %d: decision %+v", i, d)
		}
	}
	if s.calls != 0 {
		t.Errorf("suspend calls = %d, want 0", s.calls)
	}
	if g.timer != 0 {
		t.Errorf("timer = %d, want 0", g.timer)
	}
}

func TestGuardNilSuspenderDisarms(t *testing.T) {
	g := NewGuard(armedConfig(), nil, nil)
	for i := 0; i < 50; i++ {
		if d := g.Observe(collectors.BatteryDischarging, 1); d.SuspendArmed {
			t.Fatal("nil suspender should disarm the countdown")
		}
	}
}

func TestGuardSuspendErrorStillResets(t *testing.T) {
	s := &fakeSuspender{err: errors.New("exec: not found")}
	cfg := armedConfig()
	cfg.Timeout = 2
	g := NewGuard(cfg, s, nil)

	g.Observe(collectors.BatteryDischarging, 1)
	d := g.Observe(collectors.BatteryDischarging, 1)
	if !d.Suspended || s.calls != 1 || g.timer != 0 {
		t.Errorf("decision %+v, calls %d, timer %d", d, s.calls, g.timer)
	}
}

func TestStateString(t *testing.T) {
	if StateNormal.String() != "normal" || StateLow.String() != "low" || State(9).String() != "unknown" {
		t.Error("unexpected State names")
	}
}

func TestGuardZeroConfigTakesDefaults(t *testing.T) {
	g := NewGuard(GuardConfig{Suspend: true}, &fakeSuspender{}, nil)

	if d := g.Observe(collectors.BatteryDischarging, 4.9); d.State != StateLow || d.Remaining != 40 {
		t.Errorf("decision %+v, want LOW with 40 remaining", d)
	}
	if d := g.Observe(collectors.BatteryDischarging, 5); d.State != StateNormal {
		t.Errorf("decision %+v at the default threshold, want NORMAL", d)
	}
}
