// SPDX-License-Identifier: MIT

// Package timestamps converts between time.Time and the ISO-8601 wire
// form used across the project: UTC, microsecond precision, Z suffix.
package timestamps

import (
	"fmt"
	"strings"
	"time"
)

const (
	// isoLayout is ISO-8601 with microseconds and a Z suffix.
	isoLayout = "2006-01-02T15:04:05.000000Z"

	// filenameLayout is filesystem-safe, for log and backup names.
	filenameLayout = "2006-01-02_15-04-05"
)

// naiveLayouts cover ISO strings without a zone designator, which are
// taken to mean UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ToISO formats t as ISO-8601 UTC with microsecond precision.
func ToISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// NowISO returns the current UTC time in ISO-8601 form.
func NowISO() string {
	return ToISO(time.Now())
}

// FromISO parses an ISO-8601 string into a UTC time. Strings without a
// zone are assumed to be UTC; zoned strings are converted.
func FromISO(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}

	naive := strings.TrimSuffix(s, "Z")
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, naive, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse ISO-8601 timestamp %q", s)
}

// FilenameStamp formats t (UTC) for embedding in file names.
func FilenameStamp(t time.Time) string {
	return t.UTC().Format(filenameLayout)
}
