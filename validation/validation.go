package validation

import (
	"strconv"
	"strings"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// First returns one violation as "field: code", for single-line messages.
func (v Violations) First() string {
	for _, f := range []string{"username", "password", "email", "latitude", "longitude"} {
		if c, ok := v[f]; ok {
			return f + ": " + c
		}
	}
	for f, c := range v {
		return f + ": " + c
	}
	return ""
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// Latitude checks val is a number within [-90, 90].
func Latitude(field, val string, v Violations) {
	coordinate(field, val, -90, 90, v)
}

// Longitude checks val is a number within [-180, 180].
func Longitude(field, val string, v Violations) {
	coordinate(field, val, -180, 180, v)
}

func coordinate(field, val string, minVal, maxVal float64, v Violations) {
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		v[field] = "not_a_number"
		return
	}
	RangeFloat(field, f, minVal, maxVal, v)
}
