// SPDX-License-Identifier: MIT

// Package modelops provides generic operations on data model structs:
// pretty JSON rendering, field introspection, field-level diffing,
// unified diffs, and copy-on-write updates. Structs are compared
// through their JSON representation, so the json tags define field
// identity.
package modelops

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ToJSON renders v as indented JSON, the canonical form used by the
// diff operations.
func ToJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal model: %w", err)
	}
	return string(data), nil
}

// Fields returns the JSON field names of a struct (or pointer to
// struct), in declaration order. Untagged fields fall back to the Go
// field name; fields tagged "-" are skipped.
func Fields(v any) []string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var names []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, _, _ := strings.Cut(field.Tag.Get("json"), ","); tag != "" {
			if tag == "-" {
				continue
			}
			name = tag
		}
		names = append(names, name)
	}
	return names
}

// Diff returns the top-level fields that differ between a and b as
// {field: [old, new]}. Fields absent from one side appear with a nil
// slot.
func Diff(a, b any) (map[string][2]any, error) {
	ma, err := toMap(a)
	if err != nil {
		return nil, err
	}
	mb, err := toMap(b)
	if err != nil {
		return nil, err
	}

	out := map[string][2]any{}
	for k := range ma {
		if !reflect.DeepEqual(ma[k], mb[k]) {
			out[k] = [2]any{ma[k], mb[k]}
		}
	}
	for k := range mb {
		if _, seen := ma[k]; !seen {
			out[k] = [2]any{nil, mb[k]}
		}
	}
	return out, nil
}

// Changed returns only the fields where b differs from a, with b's
// values. It is the partial-update payload for a PATCH against a.
func Changed[T any](a, b T) (map[string]any, error) {
	ma, err := toMap(a)
	if err != nil {
		return nil, err
	}
	mb, err := toMap(b)
	if err != nil {
		return nil, err
	}

	out := map[string]any{}
	for k, bv := range mb {
		if !reflect.DeepEqual(ma[k], bv) {
			out[k] = bv
		}
	}
	return out, nil
}

// UDiff returns a unified diff of the two models' indented JSON forms,
// labelled a and b. Equal models yield an empty string.
func UDiff(a, b any) (string, error) {
	aj, err := ToJSON(a)
	if err != nil {
		return "", err
	}
	bj, err := ToJSON(b)
	if err != nil {
		return "", err
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(aj),
		B:        difflib.SplitLines(bj),
		FromFile: "a",
		ToFile:   "b",
		Context:  3,
	})
}

// Merge overlays the given fields onto v and returns the result. Keys
// are JSON field names; unknown keys are ignored by the decode.
func Merge[T any](v T, fields map[string]any) (T, error) {
	var out T

	m, err := toMap(v)
	if err != nil {
		return out, err
	}
	for k, fv := range fields {
		m[k] = fv
	}

	data, err := json.Marshal(m)
	if err != nil {
		return out, fmt.Errorf("marshal merged model: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("rebuild merged model: %w", err)
	}
	return out, nil
}

// toMap round-trips v through JSON into a generic map.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal model: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("model is not a JSON object: %w", err)
	}
	return m, nil
}
