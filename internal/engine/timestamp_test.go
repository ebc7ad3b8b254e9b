package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-05 14:30:00", want},
		{"2024-03-05T14:30:00", want},
		{"2024-03-05 14:30", want},
		{"2024-03-05T14:30", want},
		{" 2024-03-05 14:30:00 ", want},
		{"2024-03-05T16:30:00+02:00", want},
		{"2024-03-05T14:30:00Z", want},
		{"05.03.2024 14:30:00.000", want},
		{"05.03.2024 14:30:00.000 GMT+0000", want},
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05 14:30:00.1234567", want.Add(123456 * time.Microsecond)},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%q: got %s", tt.in, got)
		assert.Equal(t, time.UTC, got.Location())
	}
}

func TestParseTimestampInvalid(t *testing.T) {
	for _, in := range []string{"", "Time", "2024-13-01", "yesterday", "1700000000"} {
		_, err := ParseTimestamp(in)
		assert.ErrorIs(t, err, ErrInvalidTimestamp, in)
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "2024-01-02 03:04:05", FormatTimestamp(ts))
	assert.Equal(t, "2024-01-02 03:04:05.25", FormatTimestamp(ts.Add(250*time.Millisecond)))
	assert.Equal(t, "0999", yearOf(time.Date(999, 1, 1, 0, 0, 0, 0, time.UTC)))
}
