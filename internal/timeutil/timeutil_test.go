package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDurationOrDefault(t *testing.T) {
	def := 30 * time.Second

	require.Equal(t, 5*time.Minute, ParseDurationOrDefault("5m", def))
	require.Equal(t, def, ParseDurationOrDefault("", def))
	require.Equal(t, def, ParseDurationOrDefault("  ", def))
	require.Equal(t, def, ParseDurationOrDefault("soon", def))
	require.Equal(t, def, ParseDurationOrDefault("-10s", def))
	require.Equal(t, time.Duration(0), ParseDurationOrDefault("0s", def))
}
