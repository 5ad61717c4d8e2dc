package form

import (
	"math"
	"strconv"
	"strings"
)

const (
	MinWordLimit = 1
	MaxWordLimit = 400
)

// ClampWordLimit normalizes a word_limit entry. Numbers are clamped into
// [MinWordLimit, MaxWordLimit], an empty string clears the field, and anything
// else is rejected by returning prev unchanged.
func ClampWordLimit(v, prev any) any {
	switch val := v.(type) {
	case int:
		return clampInt(val)
	case int64:
		switch {
		case val >= MaxWordLimit:
			return MaxWordLimit
		case val <= MinWordLimit:
			return MinWordLimit
		}
		return int(val)
	case float64:
		// Clamp before converting; out-of-range floats have no int value.
		switch {
		case math.IsNaN(val):
			return prev
		case val >= MaxWordLimit:
			return MaxWordLimit
		case val <= MinWordLimit:
			return MinWordLimit
		}
		return int(val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return ""
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return prev
		}
		return clampInt(n)
	case nil:
		return ""
	default:
		return prev
	}
}

func clampInt(n int) int {
	if n > MaxWordLimit {
		return MaxWordLimit
	}
	if n < MinWordLimit {
		return MinWordLimit
	}
	return n
}
