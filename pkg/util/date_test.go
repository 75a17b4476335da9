package util

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	require.True(t, ok)
	assert.Equal(t, s, got.UTC().Format(time.RFC3339))
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	require.True(t, ok)
	assert.Equal(t, ts, got.Unix())
}

func TestParseTimeFetchLayout(t *testing.T) {
	got, ok := ParseTime("2024-10-10 08:30")
	require.True(t, ok)
	assert.Equal(t, 8, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	assert.True(t, ParseTimeDefault("", def).Equal(def))
	assert.True(t, ParseTimeDefault("garbage", def).Equal(def))
}

func TestClockTime(t *testing.T) {
	cases := map[string]string{
		"2024-01-05 08:30":    "08:30",
		"2024-01-05 8:30":     "08:30",
		"2024-01-05 14:00:00": "14:00",
		"2024-01-05 All Day":  "All Day",
		"10:00":               "10:00",
		"":                    "",
		"Tentative":           "Tentative",
	}
	for in, want := range cases {
		assert.Equal(t, want, ClockTime(in), in)
	}
}

func TestIsDate(t *testing.T) {
	assert.True(t, IsDate("2024-02-29"))
	assert.False(t, IsDate("2023-02-29"))
	assert.False(t, IsDate("2024-1-5"))
	assert.False(t, IsDate("../etc"))
}

func TestFormatUpdateTime(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	ts := time.Date(2024, 7, 1, 12, 5, 0, 0, time.UTC)
	assert.Equal(t, "2024/07/01 08:05 EDT", FormatUpdateTime(ts, ny))
	assert.Equal(t, NoUpdateTime, FormatUpdateTime(time.Time{}, ny))
}

func TestLatestTime(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := a.Add(time.Hour)
	assert.Equal(t, b, LatestTime(a, b, time.Time{}))
	assert.True(t, LatestTime().IsZero())
}
