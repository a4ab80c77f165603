// Package query executes structured queries against the host management
// service and flattens the resulting property sets into the line-oriented
// text protocol.
package query

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultNamespace is the standard management namespace queried when the
// caller does not name one.
const DefaultNamespace = `root\cimv2`

// Property is one named value from a structured query result row.
type Property struct {
	Name  string
	Value any
}

// Executor runs a structured query against a named management namespace and
// returns one line per result row. A connection failure yields an empty
// result, not an error: callers must treat empty output as inconclusive,
// never as "device absent". The failure is logged at the boundary.
type Executor interface {
	Query(query, namespace string) string
}

// FlattenRow renders a result row as `key=value` tokens joined by `|`,
// preserving the property order returned by the query engine. Values are
// stringified generically; arrays and other structured values fall through
// to a best-effort rendering.
func FlattenRow(props []Property) string {
	tokens := make([]string, len(props))
	for i, p := range props {
		tokens[i] = p.Name + "=" + stringify(p.Value)
	}
	return strings.Join(tokens, "|")
}

// FlattenRows renders every row on its own line.
func FlattenRows(rows [][]Property) string {
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(FlattenRow(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		// Arrays and embedded objects are unsupported by the protocol;
		// render them through the generic fallback.
		return fmt.Sprintf("%v", val)
	}
}
