package timeutil

import (
	"strings"
	"time"
)

// ParseDurationOrDefault parses value and falls back to def when it is empty,
// invalid, or negative. Timeouts and TTLs have no meaningful negative form.
func ParseDurationOrDefault(value string, def time.Duration) time.Duration {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
