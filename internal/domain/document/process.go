package document

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// Process substitutes {{path}} placeholders of content with values and materialises table
// sections from their source list. Unknown placeholders are left as they are.
func Process(content entity.TemplateContent, values map[string]any) entity.ProcessedContent {
	out := entity.ProcessedContent{
		Title:    Substitute(content.Title, values),
		Subtitle: Substitute(content.Subtitle, values),
		Footer:   Substitute(content.Footer, values),
		Sections: make([]entity.ProcessedSection, 0, len(content.Sections)),
	}
	for _, s := range content.Sections {
		ps := entity.ProcessedSection{
			ID:    s.ID,
			Title: Substitute(s.Title, values),
			Body:  Substitute(s.Body, values),
		}
		if s.Table != nil {
			ps.Columns, ps.Rows = buildTable(s.Table, values)
		}
		out.Sections = append(out.Sections, ps)
	}
	return out
}

// Substitute replaces every resolvable placeholder in s.
func Substitute(s string, values map[string]any) string {
	if s == "" || !strings.Contains(s, "{{") {
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		path := placeholderRe.FindStringSubmatch(m)[1]
		v, ok := Lookup(values, path)
		if !ok {
			return m
		}
		return Stringify(v)
	})
}

// Lookup resolves a dotted path ("fund.account.bank", "members.0.name") in a JSON tree.
func Lookup(values map[string]any, path string) (any, bool) {
	var cur any = values
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Stringify renders a JSON value for display.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "예"
		}
		return "아니오"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, Stringify(e))
		}
		return strings.Join(parts, ", ")
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

func buildTable(t *entity.TemplateTable, values map[string]any) ([]string, [][]string) {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, c.Label)
	}
	src, ok := Lookup(values, t.Source)
	if !ok {
		return cols, [][]string{}
	}
	list, ok := src.([]any)
	if !ok {
		return cols, [][]string{}
	}
	rows := make([][]string, 0, len(list))
	for _, item := range list {
		obj, _ := item.(map[string]any)
		row := make([]string, 0, len(t.Columns))
		for _, c := range t.Columns {
			v, _ := Lookup(obj, c.Key)
			row = append(row, Stringify(v))
		}
		rows = append(rows, row)
	}
	return cols, rows
}
