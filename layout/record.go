// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package layout

import (
	"fmt"
)

// Record holds the values of one layout level keyed by item name.
type Record map[string]any

// Get returns the value stored under name as a T.
func Get[T any](r Record, name string) (T, error) {
	var zero T
	v, ok := r[name]
	if !ok {
		return zero, fieldErr(name, fmt.Errorf("%w: missing value", ErrSchemaViolation))
	}
	t, ok := v.(T)
	if !ok {
		return zero, fieldErr(name, fmt.Errorf("%w: expected %T, got %T", ErrSchemaViolation, zero, v))
	}
	return t, nil
}

func asRecord(v any) (Record, error) {
	switch r := v.(type) {
	case Record:
		return r, nil
	case map[string]any:
		return r, nil
	case nil:
		return nil, fmt.Errorf("%w: missing value", ErrSchemaViolation)
	default:
		return nil, fmt.Errorf("%w: expected Record, got %T", ErrSchemaViolation, v)
	}
}

func arrayValue(v any) ([]Record, error) {
	switch a := v.(type) {
	case []Record:
		return a, nil
	case []map[string]any:
		out := make([]Record, len(a))
		for i, m := range a {
			out[i] = m
		}
		return out, nil
	case []any:
		out := make([]Record, len(a))
		for i, el := range a {
			r, err := asRecord(el)
			if err != nil {
				return nil, indexErr(i, err)
			}
			out[i] = r
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("%w: missing value", ErrSchemaViolation)
	default:
		return nil, fmt.Errorf("%w: expected []Record, got %T", ErrSchemaViolation, v)
	}
}
