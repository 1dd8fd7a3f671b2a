// SPDX-License-Identifier: MIT

package config

import (
	"reflect"
	"sort"
	"strings"
)

// Diff compares two configs of the same type and returns the dotted
// paths of fields that changed, sorted. Field names follow the json tag
// when present. Non-struct types diff as a single "." entry.
func Diff[T any](old, next T) []string {
	var changed []string
	compareValue("", reflect.ValueOf(old), reflect.ValueOf(next), &changed)
	sort.Strings(changed)
	return changed
}

func compareValue(path string, oldVal, nextVal reflect.Value, changed *[]string) {
	if !oldVal.IsValid() || !nextVal.IsValid() {
		if oldVal.IsValid() != nextVal.IsValid() {
			*changed = append(*changed, rootPath(path))
		}
		return
	}

	switch oldVal.Kind() {
	case reflect.Pointer:
		if oldVal.IsNil() || nextVal.IsNil() {
			if oldVal.IsNil() != nextVal.IsNil() {
				*changed = append(*changed, rootPath(path))
			}
			return
		}
		compareValue(path, oldVal.Elem(), nextVal.Elem(), changed)
	case reflect.Struct:
		t := oldVal.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			compareValue(joinPath(path, fieldName(f)), oldVal.Field(i), nextVal.Field(i), changed)
		}
	default:
		if !reflect.DeepEqual(oldVal.Interface(), nextVal.Interface()) {
			*changed = append(*changed, rootPath(path))
		}
	}
}

func fieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return f.Name
	}
	if name, _, found := strings.Cut(tag, ","); found || name != "" {
		if name != "" {
			return name
		}
	}
	return f.Name
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func rootPath(path string) string {
	if path == "" {
		return "."
	}
	return path
}
