package easyconfig

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// StatsComment precedes the first buildstats block in a record.
	StatsComment = "# Build statistics"

	statsVariable = "buildstats"
)

// RenderStatsBlock produces the text appended to a record for one build's
// statistics. The first write wraps the entry in a fresh list literal; later
// writes emit an append expression so a versioned record accumulates history
// without producing a whole-list diff on every build.
func RenderStatsBlock(entry Entry, hasPrevious bool) string {
	if hasPrevious {
		return fmt.Sprintf("\n%s.append(%s)\n", statsVariable, renderEntry(entry))
	}
	return fmt.Sprintf("\n%s\n%s = [%s]\n", StatsComment, statsVariable, renderEntry(entry))
}

// renderEntry serializes an entry as a JSON object with field order
// preserved, e.g. {"host": "node1", "time": 120}.
func renderEntry(e Entry) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range e.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(f.Name))
		b.WriteString(": ")
		b.WriteString(renderValue(f.Value))
	}
	b.WriteByte('}')
	return b.String()
}

func renderValue(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case json.Number:
		return x.String()
	default:
		// Nested structures and anything exotic fall back to JSON.
		out, err := json.Marshal(x)
		if err != nil {
			return strconv.Quote(fmt.Sprint(x))
		}
		return string(out)
	}
}
