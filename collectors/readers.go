package collectors

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// maxIntFileBytes bounds how much of a numeric source is read.
const maxIntFileBytes = 256

// ReadInt returns the leading integer of the file at path, ignoring leading
// whitespace and anything after the digits. It returns -1 if the file cannot
// be opened and 0 if the content holds no integer. The error describes why a
// sentinel was returned and is meant for logging only.
func ReadInt(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return -1, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxIntFileBytes))
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	v, ok := parseLeadingInt(string(data))
	if !ok {
		return 0, fmt.Errorf("parse %s: no integer in %q", path, strings.TrimSpace(string(data)))
	}
	return v, nil
}

// parseLeadingInt parses an optionally signed run of digits at the start of s
// after skipping whitespace.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

// ReadText returns at most max bytes of the file at path, stopping at end of
// file, a NUL byte or a newline. It returns "" if the file cannot be opened.
func ReadText(path string, max int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	r := bufio.NewReader(f)
	for b.Len() < max {
		c, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return b.String(), fmt.Errorf("read %s: %w", path, err)
		}
		if c == 0 || c == '\n' {
			break
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// ReadBatteryStatus reads the first byte of the status file at path.
// Unreadable or empty files map to BatteryUnknown.
func ReadBatteryStatus(path string) (BatteryState, error) {
	f, err := os.Open(path)
	if err != nil {
		return BatteryUnknown, err
	}
	defer f.Close()

	var buf [1]byte
	if _, err := io.ReadFull(f, buf[:]); err != nil {
		return BatteryUnknown, fmt.Errorf("read %s: %w", path, err)
	}
	return BatteryStateFromByte(buf[0]), nil
}
