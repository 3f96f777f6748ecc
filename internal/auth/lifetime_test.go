package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLifetime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"24h", 24 * time.Hour},
		{"30m", 30 * time.Minute},
		{"1ms", time.Millisecond},
		{"7d", 7 * 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
		{"3600", time.Hour},
		{" 1h30m ", 90 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLifetime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLifetimeRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "0", "-5m", "xd", "0d", "1y", "999999999999d", "99999999999w", "9300000000"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseLifetime(in)
			assert.ErrorIs(t, err, ErrInvalidLifetime)
		})
	}
}

func TestParseLifetimeLargestValues(t *testing.T) {
	got, err := ParseLifetime("106751d")
	require.NoError(t, err)
	assert.Equal(t, 106751*24*time.Hour, got)

	got, err = ParseLifetime("9223372036")
	require.NoError(t, err)
	assert.Equal(t, 9223372036*time.Second, got)
}
