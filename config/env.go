// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is the canonical prefix for vrachos environment keys.
const EnvPrefix = "VRACHOS_"

// Key returns the full environment key for a bare name ("DEBUG" →
// "VRACHOS_DEBUG"). Names that already carry the prefix pass through.
func Key(name string) string {
	if strings.HasPrefix(name, EnvPrefix) {
		return name
	}
	return EnvPrefix + name
}

// Lookup reads the raw value for a (possibly unprefixed) key.
func Lookup(name string) (string, bool) {
	return os.LookupEnv(Key(name))
}

// ParseString returns the env value for key, or defaultVal when unset.
func ParseString(name, defaultVal string) string {
	if v, ok := Lookup(name); ok {
		return v
	}
	return defaultVal
}

// ParseBool returns the env value parsed as bool, or defaultVal when
// unset or malformed.
func ParseBool(name string, defaultVal bool) bool {
	v, ok := Lookup(name)
	if !ok {
		return defaultVal
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseInt returns the env value parsed as int, or defaultVal when
// unset or malformed.
func ParseInt(name string, defaultVal int) int {
	v, ok := Lookup(name)
	if !ok {
		return defaultVal
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseFloat returns the env value parsed as float64, or defaultVal
// when unset or malformed.
func ParseFloat(name string, defaultVal float64) float64 {
	v, ok := Lookup(name)
	if !ok {
		return defaultVal
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseDuration returns the env value parsed as a duration, or
// defaultVal when unset or malformed.
func ParseDuration(name string, defaultVal time.Duration) time.Duration {
	v, ok := Lookup(name)
	if !ok {
		return defaultVal
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return defaultVal
	}
	return parsed
}
