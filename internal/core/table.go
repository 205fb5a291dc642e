package core

import (
	"strconv"
	"strings"

	"github.com/azhar-beg/backstage/internal/object"
)

// Row is one line of the structured table.
type Row struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// Flatten projects v onto key/value rows, depth first, in field order.
// Paths join mapping keys with dots and index sequences with [i]; keys
// that would be ambiguous in a dotted path (annotation and label keys
// such as "app.kubernetes.io/name") are quoted in brackets. Empty
// containers yield a single row holding "{}" or "[]".
func Flatten(v object.Value) []Row {
	var rows []Row
	flatten(&rows, "", v)
	return rows
}

func flatten(rows *[]Row, path string, v object.Value) {
	switch v.Kind() {
	case object.KindMapping:
		fields := v.Fields()
		if len(fields) == 0 {
			*rows = append(*rows, Row{Path: path, Value: "{}"})
			return
		}
		for _, f := range fields {
			flatten(rows, joinKey(path, f.Key), f.Value)
		}

	case object.KindSequence:
		items := v.Items()
		if len(items) == 0 {
			*rows = append(*rows, Row{Path: path, Value: "[]"})
			return
		}
		for i, item := range items {
			flatten(rows, path+"["+strconv.Itoa(i)+"]", item)
		}

	default:
		*rows = append(*rows, Row{Path: path, Value: v.String()})
	}
}

func joinKey(path, key string) string {
	if key == "" || strings.ContainsAny(key, ".[]\"") {
		return path + "[" + strconv.Quote(key) + "]"
	}
	if path == "" {
		return key
	}
	return path + "." + key
}
