package converter

import (
	"math"
	"strconv"
	"strings"
)

// Coerced is a numeric field after coercion. Errors is 0 or 1.
type Coerced struct {
	Value  int64
	Errors int
}

// Coerce parses a decimal field and truncates it to an integer. Absent,
// unparseable, non-finite and negative inputs yield 0 with one error.
func Coerce(raw string, present bool) Coerced {
	if !present {
		return Coerced{Errors: 1}
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return Coerced{Errors: 1}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Coerced{Errors: 1}
	}
	if v < 0 || v >= math.MaxInt64 {
		return Coerced{Errors: 1}
	}
	return Coerced{Value: int64(v)}
}

func field(record []string, i int) (string, bool) {
	if i < 0 || i >= len(record) {
		return "", false
	}
	return record[i], true
}
