package store

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Document is a JSON object stored under a collection and id.
type Document map[string]any

// ID returns the document id, or "" when unset.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Encode converts v into a Document through its JSON representation.
func Encode(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

// Decode fills v from doc through its JSON representation.
func Decode(doc Document, v any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// Filter is an equality condition on a top-level field.
type Filter struct {
	Field string
	Value any
}

// Query narrows and orders a List call.
type Query struct {
	Where      []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

func (q Query) matches(doc Document) bool {
	for _, f := range q.Where {
		if !equalValues(doc[f.Field], f.Value) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// compareValues orders nil first, then numbers numerically and strings lexically.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if fa, ok := a.(float64); ok {
		if fb, ok := b.(float64); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
