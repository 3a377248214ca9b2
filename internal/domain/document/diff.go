package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// ChangeType kind of a field-level change.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

// Change one field-level difference between two processed contents.
type Change struct {
	Path       string     `json:"path"`
	ChangeType ChangeType `json:"change_type"`
	Before     any        `json:"before"`
	After      any        `json:"after"`
}

// Compare deep-compares two JSON documents by key path. Objects are compared key by key in
// sorted order, arrays positionally (a reorder shows up as per-index modifications) and
// scalars by value.
func Compare(from, to []byte) ([]Change, error) {
	a, err := decodeTree(from)
	if err != nil {
		return nil, fmt.Errorf("document: decode from: %w", err)
	}
	b, err := decodeTree(to)
	if err != nil {
		return nil, fmt.Errorf("document: decode to: %w", err)
	}
	changes := []Change{}
	walk("", a, b, &changes)
	return changes, nil
}

func decodeTree(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func walk(path string, a, b any, out *[]Change) {
	switch av := a.(type) {
	case map[string]any:
		if bv, ok := b.(map[string]any); ok {
			walkObject(path, av, bv, out)
			return
		}
	case []any:
		if bv, ok := b.([]any); ok {
			walkArray(path, av, bv, out)
			return
		}
	}
	if !reflect.DeepEqual(a, b) {
		*out = append(*out, Change{Path: path, ChangeType: ChangeModified, Before: a, After: b})
	}
}

func walkObject(path string, a, b map[string]any, out *[]Change) {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		av, inA := a[k]
		bv, inB := b[k]
		p := joinKey(path, k)
		switch {
		case !inA:
			*out = append(*out, Change{Path: p, ChangeType: ChangeAdded, After: bv})
		case !inB:
			*out = append(*out, Change{Path: p, ChangeType: ChangeRemoved, Before: av})
		default:
			walk(p, av, bv, out)
		}
	}
}

func walkArray(path string, a, b []any, out *[]Change) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		p := path + "[" + strconv.Itoa(i) + "]"
		switch {
		case i >= len(a):
			*out = append(*out, Change{Path: p, ChangeType: ChangeAdded, After: b[i]})
		case i >= len(b):
			*out = append(*out, Change{Path: p, ChangeType: ChangeRemoved, Before: a[i]})
		default:
			walk(p, a[i], b[i], out)
		}
	}
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
