package utils

import (
	"encoding/json"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanUTF8Text(t *testing.T) {
	assert.Equal(t, "", CleanUTF8Text(""))
	assert.Equal(t, "Rise and Fall of Rome", CleanUTF8Text("Rise and Fall of Rome"))
	assert.Equal(t, "ab", CleanUTF8Text("a\x00b"))
	assert.Equal(t, "history", CleanUTF8Text("his\xfftory"))
	assert.Equal(t, "日本の歴史", CleanUTF8Text("日本の歴史"))
}

// Cleaned text must survive a JSON encode/decode unchanged, even when the
// raw API value held invalid bytes.
func TestCleanUTF8Text_JSONRoundTrip(t *testing.T) {
	inputs := []string{
		"Rise and Fall of Rome",
		"his\xfftory",
		"a\x00b",
		"broken \xc3\x28 sequence",
		"日本の歴史",
	}
	for _, input := range inputs {
		cleaned := CleanUTF8Text(input)
		assert.True(t, utf8.ValidString(cleaned), input)

		encoded, err := json.Marshal(map[string]string{"title": cleaned})
		require.NoError(t, err, input)

		var decoded map[string]string
		require.NoError(t, json.Unmarshal(encoded, &decoded), input)
		assert.Equal(t, cleaned, decoded["title"], input)
	}
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		iso      string
		expected int64
	}{
		{"PT31S", 31},
		{"PT8M31S", 511},
		{"PT1H2M3S", 3723},
		{"P1DT1H", 90000},
		{"PT1H", 3600},
		{"P2D", 172800},
		{"", 0},
		{"not-a-duration", 0},
		{"PT", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseISODuration(tt.iso), tt.iso)
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 33.33, Round(33.333333, 2))
	assert.Equal(t, 12.3457, Round(12.34567, 4))
	assert.Equal(t, 0.0, Round(0, 2))
	assert.Equal(t, -2.5, Round(-2.499999, 2))
	assert.Equal(t, 100.0, Round(100, 2))
}