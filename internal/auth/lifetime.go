package auth

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// ParseLifetime parses a token lifetime. It accepts Go durations ("30m", "24h",
// "1ms"), day and week suffixes ("7d", "2w") and bare integers as seconds.
func ParseLifetime(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidLifetime)
	}

	var (
		lifetime time.Duration
		err      error
	)
	switch {
	case isDigits(value):
		lifetime, err = scaled(value, time.Second)
	case strings.HasSuffix(value, "d"):
		lifetime, err = scaled(strings.TrimSuffix(value, "d"), day)
	case strings.HasSuffix(value, "w"):
		lifetime, err = scaled(strings.TrimSuffix(value, "w"), week)
	default:
		lifetime, err = time.ParseDuration(value)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidLifetime, value, err)
	}
	if lifetime <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidLifetime, value)
	}
	return lifetime, nil
}

func scaled(count string, unit time.Duration) (time.Duration, error) {
	n, err := strconv.ParseInt(count, 10, 64)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt64/int64(unit) || n < math.MinInt64/int64(unit) {
		return 0, fmt.Errorf("%s overflows a duration", count)
	}
	return time.Duration(n) * unit, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
