package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// volatileKeys top-level context keys that change on every generation and are ignored when
// deciding whether two generations are equivalent.
var volatileKeys = map[string]struct{}{
	"generated_at":   {},
	"generated_date": {},
	"generated_by":   {},
	"is_preview":     {},
}

// Normalize returns the canonical JSON form of a generation context: volatile keys removed,
// strings NFC-normalised, timestamps rewritten to RFC3339 UTC and object keys sorted.
func Normalize(raw []byte) ([]byte, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []byte("null"), nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("document: decode context: %w", err)
	}
	if obj, ok := tree.(map[string]any); ok {
		for k := range volatileKeys {
			delete(obj, k)
		}
	}
	out, err := json.Marshal(canonical(tree))
	if err != nil {
		return nil, fmt.Errorf("document: encode context: %w", err)
	}
	return out, nil
}

// NormalizeContext normalises a typed context.
func NormalizeContext(c *Context) ([]byte, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("document: marshal context: %w", err)
	}
	return Normalize(raw)
}

// Equivalent reports whether two stored contexts are the same once normalised.
func Equivalent(a, b []byte) (bool, error) {
	na, err := Normalize(a)
	if err != nil {
		return false, err
	}
	nb, err := Normalize(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(na, nb), nil
}

func canonical(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = canonical(child)
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = canonical(child)
		}
		return t
	case string:
		return canonicalString(t)
	default:
		return v
	}
}

func canonicalString(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	if len(s) >= len("2006-01-02T15:04:05Z") && strings.Contains(s, "T") {
		if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return ts.UTC().Format(time.RFC3339Nano)
		}
	}
	return s
}
