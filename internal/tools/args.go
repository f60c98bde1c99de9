package tools

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Args are a tool call's arguments as decoded from the model. Models are
// loose with types, so numbers may arrive as float64, json.Number or strings.
type Args map[string]any

func (a Args) Int(key string) (int64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		// float64(MaxInt64) rounds up to 2^63, which is already out of range.
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

func (a Args) Float(key string) (float64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(n), "$"))
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// String returns a trimmed, non-empty string argument.
func (a Args) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func (a Args) requireString(key string) (string, error) {
	s, ok := a.String(key)
	if !ok {
		return "", malformed("%s is required", key)
	}
	return s, nil
}

func (a Args) requireInt(key string) (int64, error) {
	if _, present := a[key]; !present {
		return 0, malformed("%s is required", key)
	}
	n, ok := a.Int(key)
	if !ok {
		return 0, malformed("%s must be an integer", key)
	}
	return n, nil
}

func (a Args) requireFloat(key string) (float64, error) {
	if _, present := a[key]; !present {
		return 0, malformed("%s is required", key)
	}
	f, ok := a.Float(key)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, malformed("%s must be a number", key)
	}
	return f, nil
}
