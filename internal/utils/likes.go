package utils

import (
	"math"
	"strconv"
	"strings"
)

// MAX_LIKES is the largest suffixed counter ParseLikes accepts.
const MAX_LIKES = math.MaxInt32

// ParseLikes turns a like counter as the platforms print it into a number.
// "1,2rb" (ribu) and "1.2k" are thousands; anything unparsable is 0.
func ParseLikes(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}

	for _, suffix := range []string{"rb", "k"} {
		if !strings.HasSuffix(s, suffix) {
			continue
		}
		num := strings.ReplaceAll(strings.TrimSpace(strings.TrimSuffix(s, suffix)), ",", ".")
		f, err := strconv.ParseFloat(num, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return 0
		}
		f = math.Round(f * 1000)
		if f > MAX_LIKES {
			return 0
		}
		return int(f)
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
