package flights

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Duration is a flight or layover duration. On the wire it is written as an
// ISO-8601 duration (PT1H30M) and read from any of the shapes the backend
// has produced: an ISO string, a {"seconds": N} object, or a bare number of
// seconds.
type Duration time.Duration

// Minutes builds a Duration from whole minutes.
func Minutes(m int) Duration {
	return Duration(time.Duration(m) * time.Minute)
}

// Minutes returns the duration in whole minutes.
func (d Duration) Minutes() int {
	return int(time.Duration(d) / time.Minute)
}

// ISO formats d as PT{h}H{m}M. Minutes are omitted on whole hours and the
// hours part on durations under an hour.
func (d Duration) ISO() string {
	total := time.Duration(d)
	hours := int(total / time.Hour)
	minutes := int(total%time.Hour) / int(time.Minute)
	seconds := int(total%time.Minute) / int(time.Second)

	var b strings.Builder
	b.WriteString("PT")
	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
		if minutes > 0 {
			fmt.Fprintf(&b, "%dM", minutes)
		}
	} else {
		fmt.Fprintf(&b, "%dM", minutes)
	}
	if seconds > 0 {
		fmt.Fprintf(&b, "%dS", seconds)
	}
	return b.String()
}

// String renders d for people, e.g. "1h 30m".
func (d Duration) String() string {
	m := d.Minutes()
	switch {
	case m >= 60 && m%60 != 0:
		return fmt.Sprintf("%dh %dm", m/60, m%60)
	case m >= 60:
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dm", m)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ISO())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = 0
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseISODuration(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case '{':
		var obj struct {
			Seconds float64 `json:"seconds"`
			Nanos   int64   `json:"nanos"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*d = Duration(time.Duration(obj.Seconds*float64(time.Second)) + time.Duration(obj.Nanos))
		return nil
	}

	seconds, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("duration: unsupported value %s", data)
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseISODuration parses the day/time subset of ISO-8601 durations the
// backend emits (P1DT2H30M15.5S). Years, months and weeks are rejected.
func ParseISODuration(s string) (Duration, error) {
	m := isoDurationPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil || s == "P" || strings.HasSuffix(strings.ToUpper(s), "T") {
		return 0, fmt.Errorf("duration: invalid ISO-8601 value %q", s)
	}

	var total time.Duration
	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute}
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("duration: %q: %w", s, err)
		}
		total += time.Duration(n) * unit
	}
	if m[4] != "" {
		secs, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return 0, fmt.Errorf("duration: %q: %w", s, err)
		}
		total += time.Duration(secs * float64(time.Second))
	}
	return Duration(total), nil
}
