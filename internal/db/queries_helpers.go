package db

import (
	"strconv"
	"strings"
	"time"
)

// timestampLayout is fixed-width UTC so text comparison orders instants.
const timestampLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		// Rows written by hand or older builds may carry RFC 3339 offsets.
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t.UTC()
}

func (d *DB) now() string {
	return formatTime(d.Now())
}

// rebind rewrites ? placeholders to $n for Postgres.
func (d *DB) rebind(query string) string {
	if d.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
