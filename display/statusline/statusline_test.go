package statusline

import (
	"testing"
	"time"

	"gitlab.com/tinyland/lab/dwmstatus/collectors"
	"gitlab.com/tinyland/lab/dwmstatus/status"
)

func goldenMetrics() Metrics {
	return Metrics{
		CPU:      12.3,
		FreqGHz:  collectors.FrequencyGHz(2400000),
		RAM:      45.6,
		Link:     "home-wifi",
		State:    collectors.BatteryDischarging,
		Battery:  67.8,
		DateTime: "Mon 14.03.2024 09:05",
	}
}

func TestNormalGolden(t *testing.T) {
	want := "cpu 12.3% 2.4 GHz | ram 46% | wifi home-wifi | -68% | Mon 14.03.2024 09:05"
	if got := Normal(goldenMetrics()); got != want {
		t.Errorf("Normal =\n%q\nwant\n%q", got, want)
	}
}

func TestNormalCapsBattery(t *testing.T) {
	m := goldenMetrics()
	m.State = collectors.BatteryFull
	m.Battery = 104.4
	want := "cpu 12.3% 2.4 GHz | ram 46% | wifi home-wifi | =100% | Mon 14.03.2024 09:05"
	if got := Normal(m); got != want {
		t.Errorf("Normal = %q, want %q", got, want)
	}
}

func TestNormalSymbols(t *testing.T) {
	tests := []struct {
		state collectors.BatteryState
		want  string
	}{
		{collectors.BatteryCharging, "+68%"},
		{collectors.BatteryDischarging, "-68%"},
		{collectors.BatteryUnknown, "?68%"},
		{collectors.BatteryFull, "=68%"},
	}
	for _, tt := range tests {
		m := goldenMetrics()
		m.State = tt.state
		want := "cpu 12.3% 2.4 GHz | ram 46% | wifi home-wifi | " + tt.want + " | Mon 14.03.2024 09:05"
		if got := Normal(m); got != want {
			t.Errorf("%v: Normal = %q", tt.state, got)
		}
	}
}

func TestNormalSentinels(t *testing.T) {
	m := Metrics{State: collectors.BatteryUnknown, DateTime: "Thu 01.01.1970 00:00"}
	want := "cpu 0.0% 0.0 GHz | ram 0% | wifi  | ?0% | Thu 01.01.1970 00:00"
	if got := Normal(m); got != want {
		t.Errorf("Normal = %q, want %q", got, want)
	}
}

func TestLowGolden(t *testing.T) {
	if got := Low(3.2, false, 0); got != "!!! LOW BATTERY !!! remaining 3.2%" {
		t.Errorf("Low = %q", got)
	}
	if got := Low(3.2, true, 40); got != "LOW BATTERY: remaining 3.2% suspending after 40 " {
		t.Errorf("Low armed = %q", got)
	}
}

func TestFromReading(t *testing.T) {
	ts := time.Date(2024, time.March, 11, 9, 5, 0, 0, time.UTC)
	r := &collectors.Reading{
		Timestamp:    ts,
		BatteryNow:   339,
		BatteryFull:  500,
		BatteryState: collectors.BatteryCharging,
		Link:         "up",
		FreqRaw:      1800000,
		Mem:          collectors.MemCounters{Buffers: 1, Total: 4},
	}

	m := FromReading(r, 7.5, "")
	want := "cpu 7.5% 1.8 GHz | ram 25% | wifi up | +68% | Mon 11.03.2024 09:05"
	if got := Normal(m); got != want {
		t.Errorf("Normal(FromReading) = %q, want %q", got, want)
	}
}

func TestBuild(t *testing.T) {
	ts := time.Now()
	m := goldenMetrics()

	f := Build(m, status.Decision{State: status.StateNormal, Percent: 67.8}, ts)
	if f.Low || f.Text != Normal(m) || !f.Timestamp.Equal(ts) {
		t.Errorf("normal frame = %+v", f)
	}

	f = Build(m, status.Decision{State: status.StateLow, Percent: 3.2, SuspendArmed: true, Remaining: 12}, ts)
	if !f.Low || f.Text != "LOW BATTERY: remaining 3.2% suspending after 12 " {
		t.Errorf("low frame = %+v", f)
	}
}
