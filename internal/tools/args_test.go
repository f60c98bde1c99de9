package tools

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgsInt(t *testing.T) {
	args := Args{
		"float":   float64(7),
		"frac":    7.5,
		"number":  json.Number("12"),
		"string":  " 42 ",
		"garbage": "seven",
		"bool":    true,
		"huge":    1e19,
		"edge":    float64(math.MaxInt64),
		"lowest":  float64(math.MinInt64),
		"inf":     math.Inf(1),
	}
	tests := []struct {
		key    string
		want   int64
		wantOK bool
	}{
		{"float", 7, true},
		{"frac", 0, false},
		{"number", 12, true},
		{"string", 42, true},
		{"garbage", 0, false},
		{"bool", 0, false},
		{"huge", 0, false},
		{"edge", 0, false},
		{"lowest", math.MinInt64, true},
		{"inf", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		got, ok := args.Int(tt.key)
		assert.Equal(t, tt.wantOK, ok, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}
}

func TestArgsFloat(t *testing.T) {
	args := Args{"a": 12.5, "b": "$3.20", "c": json.Number("1e2"), "d": "lots"}

	f, ok := args.Float("a")
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	f, ok = args.Float("b")
	assert.True(t, ok)
	assert.Equal(t, 3.2, f)

	f, ok = args.Float("c")
	assert.True(t, ok)
	assert.Equal(t, 100.0, f)

	_, ok = args.Float("d")
	assert.False(t, ok)
}

func TestArgsString(t *testing.T) {
	args := Args{"name": "  run ", "blank": "  ", "num": 3}

	s, ok := args.String("name")
	assert.True(t, ok)
	assert.Equal(t, "run", s)

	_, ok = args.String("blank")
	assert.False(t, ok)
	_, ok = args.String("num")
	assert.False(t, ok)
}

func TestParseVariants(t *testing.T) {
	c, known := ParseCategory("  BILLS")
	assert.True(t, known)
	assert.Equal(t, CategoryBills, c)

	c, known = ParseCategory("groceries")
	assert.False(t, known)
	assert.Equal(t, CategoryOther, c)

	p, err := ParsePeriod("")
	assert.NoError(t, err)
	assert.Equal(t, PeriodWeek, p)
	_, err = ParsePeriod("fortnight")
	assert.Equal(t, KindMalformedArguments, KindOf(err))

	f, err := ParseFrequency("Weekly")
	assert.NoError(t, err)
	assert.Equal(t, FrequencyWeekly, f)
}

func TestPeriodWindow(t *testing.T) {
	tests := []struct {
		period   Period
		wantFrom string
	}{
		{PeriodToday, "2025-03-01"},
		{PeriodWeek, "2025-02-22"},
		{PeriodMonth, "2025-01-30"},
	}
	for _, tt := range tests {
		from, to, err := tt.period.Window("2025-03-01")
		assert.NoError(t, err)
		assert.Equal(t, tt.wantFrom, from, tt.period)
		assert.Equal(t, "2025-03-01", to)
	}
}
