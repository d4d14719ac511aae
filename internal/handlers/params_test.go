package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloat(t *testing.T) {
	cases := []struct {
		in      string
		want    *float64
		invalid bool
	}{
		{in: `{"v": 2.5}`, want: ptr(2.5)},
		{in: `{"v": "3"}`, want: ptr(3)},
		{in: `{"v": " "}`},
		{in: `{"v": null}`},
		{in: `{}`},
		{in: `{"v": "abc"}`, invalid: true},
		{in: `{"v": true}`, invalid: true},
	}
	for _, tc := range cases {
		var body struct {
			V flexFloat `json:"v"`
		}
		require.NoError(t, json.Unmarshal([]byte(tc.in), &body), tc.in)
		assert.Equal(t, tc.want, body.V.Ptr(), tc.in)
		assert.Equal(t, tc.invalid, body.V.invalid, tc.in)
	}
}

func TestParseScheduledTime(t *testing.T) {
	for in, want := range map[string]time.Time{
		"2026-10-16T14:30:00Z":      time.Date(2026, 10, 16, 14, 30, 0, 0, time.UTC),
		"2026-10-16T14:30:00+02:00": time.Date(2026, 10, 16, 12, 30, 0, 0, time.UTC),
		"2026-10-16T14:30:15":       time.Date(2026, 10, 16, 14, 30, 15, 0, time.UTC),
		"2026-10-16T14:30":          time.Date(2026, 10, 16, 14, 30, 0, 0, time.UTC),
	} {
		got, err := parseScheduledTime(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s", in, got)
	}

	_, err := parseScheduledTime("tomorrow")
	assert.Error(t, err)
}

func ptr(f float64) *float64 { return &f }
