// Package manpage generates a roff-formatted man page for dwmstatus.
//
// The key binding section is built from the TUI's bindings, so the page
// follows the code.
//
// Usage:
//
//	dwmstatus man | man -l -
//	dwmstatus man > ~/.local/share/man/man1/dwmstatus.1
package manpage

import (
	"fmt"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/dwmstatus/display/tui"
)

// Generate produces a complete roff-formatted man(1) page for dwmstatus.
// version, commit and date come from the build-time linker variables.
func Generate(version, commit, date string) string {
	var b strings.Builder

	writeHeader(&b, version)
	writeName(&b)
	writeSynopsis(&b)
	writeDescription(&b)
	writeOptions(&b)
	writeCommands(&b)
	writeKeybindings(&b)
	writeConfiguration(&b)
	writeFiles(&b)
	writeExamples(&b)
	writeEnvironment(&b)
	writeExitStatus(&b)
	writeSeeAlso(&b)
	writeFooter(&b, version, commit, date)

	return b.String()
}

// roffEscape escapes special roff characters in a string.
func roffEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `-`, `\-`)
	s = strings.ReplaceAll(s, `.`, `\&.`)
	return s
}

func writeHeader(b *strings.Builder, version string) {
	month := time.Now().Format("January 2006")
	fmt.Fprintf(b, ".TH DWMSTATUS 1 \"%s\" \"dwmstatus %s\" \"User Commands\"\n", month, version)
}

func writeName(b *strings.Builder) {
	b.WriteString(`.SH NAME
dwmstatus \- status line producer for the dwm window manager
`)
}

func writeSynopsis(b *strings.Builder) {
	b.WriteString(`.SH SYNOPSIS
.B dwmstatus
[\fIOPTIONS\fR] [\fICOMMAND\fR]
`)
}

func writeDescription(b *strings.Builder) {
	b.WriteString(`.SH DESCRIPTION
.B dwmstatus
samples CPU utilisation and frequency, buffer memory, the wireless link
name, battery charge and the clock once per interval and publishes a single
line of text. dwm shows the title of the X root window in its bar, so the
default sink sets that title.
.PP
The normal line reads:
.PP
.nf
cpu 12.5% 2.4 GHz | ram 3% | wifi up | \-87% | Thu 14.03.2024 09:05
.fi
.PP
When the battery is discharging below the configured threshold the line is
replaced by a warning. If suspend is enabled, the warning counts down the
ticks left and the suspend command is started when it reaches zero.
.PP
Three sinks are available:
.IP \(bu 2
.B xroot
(default): sets WM_NAME on the root window of the X display.
.IP \(bu 2
.B stdout
: prints one line per tick, highlighting the warning on colour terminals.
.IP \(bu 2
.B tui
: a full-screen terminal view with gauges and a CPU history.
`)
}

func writeOptions(b *strings.Builder) {
	b.WriteString(`.SH OPTIONS
`)

	flags := []struct {
		flag string
		arg  string
		desc string
	}{
		{"config", "PATH", "Path to the YAML configuration file. Default: ~/.config/dwmstatus/config.yaml."},
		{"debug", "", "Print to stdout instead of the root window and replace the suspend command with a line reading \"sleeping\"."},
		{"sink", "SINK", "Override the configured sink. SINK must be one of: xroot, stdout, tui. Takes precedence over \\fB\\-\\-debug\\fR."},
	}

	for _, f := range flags {
		b.WriteString(".TP\n")
		if f.arg != "" {
			fmt.Fprintf(b, ".BR \\-\\-%s \" \\fI%s\\fR\"\n", f.flag, f.arg)
		} else {
			fmt.Fprintf(b, ".B \\-\\-%s\n", f.flag)
		}
		b.WriteString(f.desc + "\n")
	}
}

func writeCommands(b *strings.Builder) {
	b.WriteString(`.SH COMMANDS
With no command, dwmstatus runs the status loop until interrupted.
`)

	commands := []struct {
		name string
		desc string
	}{
		{"once", "Sample twice one interval apart and print a single status line to stdout."},
		{"config", "Print the effective configuration, after defaults and flags, as YAML."},
		{"diagnose", "Check every configured source, the PID file and the selected sink."},
		{"keys", "List the TUI key bindings."},
		{"man", "Print this man page in roff format."},
		{"version", "Print the version, commit hash and build date."},
	}

	for _, c := range commands {
		fmt.Fprintf(b, ".TP\n.B %s\n%s\n", c.name, c.desc)
	}
}

func writeKeybindings(b *strings.Builder) {
	b.WriteString(`.SH KEYBINDINGS
Active in the TUI sink (\fB\-\-sink tui\fR).
`)
	for _, binding := range tui.Bindings() {
		keysStr := strings.Join(binding.Keys(), ", ")
		fmt.Fprintf(b, ".TP\n.B %s\n%s\n", roffEscape(keysStr), binding.Help().Desc)
	}
}

func writeConfiguration(b *strings.Builder) {
	b.WriteString(`.SH CONFIGURATION
Configuration is read from a YAML file at
.B ~/.config/dwmstatus/config.yaml
by default, or from the path given with \fB\-\-config\fR. A missing file
selects the defaults.
.SS top level
.TP
.B interval
Duration between status updates. Default: "1s".
.TP
.B sink
One of xroot, stdout, tui. Default: xroot.
.TP
.B display
X display for the xroot sink. Default: $DISPLAY.
.TP
.B color
Styling of the stdout sink: auto, always, never. Default: auto.
.TP
.B datetime_format
Go time layout for the clock. Default: "Mon 02.01.2006 15:04".
Weekday and month names are always English; the locale is not consulted.
.TP
.B pid_file
Single instance lock. Default: $XDG_RUNTIME_DIR/dwmstatus.pid.
.SS sources
.TP
.B battery_backend
sysfs reads the three battery files below; system asks the platform.
.TP
.B battery_now, battery_full, battery_status
Charge, full charge and status files. Only the first byte of the status
file is read.
.TP
.B link, link_max
Wireless link name file and the number of bytes kept. Default: 8.
.TP
.B cpu_freq
CPU frequency in kHz.
.TP
.B proc_stat
Kernel CPU counters. Default: /proc/stat.
.SS battery
.TP
.B threshold
Percent below which a discharging battery is low. Default: 5.
.TP
.B timeout
Ticks spent low before suspending. Default: 40.
.SS suspend
.TP
.B enabled
Arm the countdown and suspend. Default: false.
.TP
.B command
Executable and arguments, started detached. Default: [/usr/bin/systemctl, suspend].
.TP
.B dry_run
Print "sleeping" instead of running the command.
.SS log
.TP
.B level
debug, info, warn or error. Default: warn.
.TP
.B file
Log destination. Default: stderr.
`)
}

func writeFiles(b *strings.Builder) {
	b.WriteString(`.SH FILES
.TP
.I ~/.config/dwmstatus/config.yaml
Configuration file (YAML).
.TP
.I $XDG_RUNTIME_DIR/dwmstatus.pid
PID file held while the loop runs. Without XDG_RUNTIME_DIR it is
dwmstatus\-UID.pid in the temporary directory.
.TP
.I $XDG_RUNTIME_DIR/dwmstatus.health.json
Heartbeat rewritten after every tick, named after the PID file.
.TP
.I /proc/stat
Aggregate CPU time counters.
.TP
.I /sys/class/power_supply/BAT0/
Default battery files.
`)
}

func writeExamples(b *strings.Builder) {
	b.WriteString(`.SH EXAMPLES
Start from .xinitrc before dwm:
.PP
.nf
dwmstatus &
exec dwm
.fi
.PP
Watch the line in a terminal without suspending:
.PP
.nf
dwmstatus \-\-debug
.fi
.PP
Check that every source is readable:
.PP
.nf
dwmstatus diagnose
.fi
.PP
Install the man page:
.PP
.nf
dwmstatus man > ~/.local/share/man/man1/dwmstatus.1
.fi
`)
}

func writeEnvironment(b *strings.Builder) {
	b.WriteString(`.SH ENVIRONMENT
.TP
.B DISPLAY
X display used by the xroot sink when display is unset.
.TP
.B XDG_CONFIG_HOME
Base directory of the default configuration file.
.TP
.B XDG_RUNTIME_DIR
Directory of the default PID file.
.TP
.B NO_COLOR
Disables styling of the stdout sink when color is auto.
`)
}

func writeExitStatus(b *strings.Builder) {
	b.WriteString(".SH EXIT STATUS\n")
	b.WriteString(".TP\n.B 0\n")
	b.WriteString("Clean shutdown on SIGINT or SIGTERM, or all checks passed.\n")
	b.WriteString(".TP\n.B 1\n")
	b.WriteString("Invalid configuration, another instance running, a sink that cannot be opened, or a failed check.\n")
}

func writeSeeAlso(b *strings.Builder) {
	b.WriteString(`.SH SEE ALSO
.BR dwm (1),
.BR xsetroot (1),
.BR systemctl (1)
`)
}

func writeFooter(b *strings.Builder, version, commit, date string) {
	fmt.Fprintf(b, ".SH VERSION\n%s (%s) built %s\n", version, commit, date)
}
