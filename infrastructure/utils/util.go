package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// CleanUTF8Text coerces arbitrary API text into valid UTF-8 that survives
// JSON encoding. Invalid byte sequences are dropped and null bytes removed.
func CleanUTF8Text(s string) string {
	if s == "" {
		return s
	}
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	s = strings.ReplaceAll(s, "\x00", "")
	return s
}

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration converts an ISO 8601 duration (e.g. PT1H2M3S) to whole
// seconds. Unparseable input yields 0.
func ParseISODuration(iso string) int64 {
	m := isoDurationRe.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	days, _ := strconv.ParseInt(m[1], 10, 64)
	hours, _ := strconv.ParseInt(m[2], 10, 64)
	minutes, _ := strconv.ParseInt(m[3], 10, 64)
	seconds, _ := strconv.ParseInt(m[4], 10, 64)
	return days*86400 + hours*3600 + minutes*60 + seconds
}

// Round returns v rounded to the given number of decimal places.
func Round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
