package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	testCases := []struct {
		name      string
		raw       string
		expected  time.Time
		expectErr bool
	}{
		{
			name:     "ISO without zone is local",
			raw:      "2025-11-14T09:30:00",
			expected: time.Date(2025, 11, 14, 9, 30, 0, 0, shanghai),
		},
		{
			name:     "ISO with fraction and Z is converted",
			raw:      "2025-11-14T01:30:00.123Z",
			expected: time.Date(2025, 11, 14, 9, 30, 0, 123000000, shanghai),
		},
		{
			name:     "ISO with offset",
			raw:      "2025-11-14T09:30:00+08:00",
			expected: time.Date(2025, 11, 14, 9, 30, 0, 0, shanghai),
		},
		{
			name:     "Space separated",
			raw:      "2025-11-14 09:30:00",
			expected: time.Date(2025, 11, 14, 9, 30, 0, 0, shanghai),
		},
		{
			name:     "Date only",
			raw:      "2025-11-14",
			expected: time.Date(2025, 11, 14, 0, 0, 0, 0, shanghai),
		},
		{
			name:     "Slashes",
			raw:      "2025/11/14",
			expected: time.Date(2025, 11, 14, 0, 0, 0, 0, shanghai),
		},
		{name: "Empty", raw: "  ", expectErr: true},
		{name: "Garbage", raw: "yesterday", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Timestamp(tc.raw, shanghai)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, tc.expected.Equal(parsed), "expected %v, got %v", tc.expected, parsed)
		})
	}
}

func TestCalendarDate(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  string
		expectErr bool
	}{
		{name: "Plain date", raw: "2025-11-18", expected: "2025-11-18"},
		{name: "Date-time keeps calendar day", raw: "2025-11-18T23:30:00Z", expected: "2025-11-18"},
		{name: "Space date-time", raw: "2025-11-18 08:00:00", expected: "2025-11-18"},
		{name: "Slashes", raw: "2025/11/18", expected: "2025-11-18"},
		{name: "Surrounding spaces", raw: " 2025-11-18 ", expected: "2025-11-18"},
		{name: "Invalid day", raw: "2025-02-30", expectErr: true},
		{name: "Trailing junk", raw: "2025-11-18x", expectErr: true},
		{name: "Too short", raw: "11-18", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CalendarDate(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
