package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Year
	}{
		{"bare number", `2026`, 2026},
		{"quoted number", `"2026"`, 2026},
		{"null", `null`, 0},
		{"empty string", `""`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var y Year
			require.NoError(t, json.Unmarshal([]byte(tc.in), &y))
			assert.Equal(t, tc.want, y)
		})
	}

	var y Year
	err := json.Unmarshal([]byte(`"soon"`), &y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numeric")
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2008-05-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2008, 5, 14, 0, 0, 0, 0, time.UTC), got)

	got, err = parseDate("2008-05-14T09:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Hour())

	_, err = parseDate("14/05/2008")
	assert.Error(t, err)
}

func TestEmailPattern(t *testing.T) {
	valid := []string{"a@b.co", "first.last+tag@sub.example.org"}
	invalid := []string{"", "plain", "a b@c.d", "a@b", "a@b.", "@b.co"}

	for _, addr := range valid {
		assert.True(t, emailPattern.MatchString(addr), addr)
	}
	for _, addr := range invalid {
		assert.False(t, emailPattern.MatchString(addr), addr)
	}
}
