// Package serialize converts resource structs into CloudFormation property maps and
// finds the logical names those properties reference.
package serialize

import (
	"encoding/json"
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// Properties serializes a resource struct to CloudFormation properties.
// Field names come from json tags. Nil and zero values are omitted, and values implementing
// json.Marshaler (intrinsics, AttrRef) are emitted in their marshaled form.
func Properties(v any) (map[string]any, error) {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, nil
	}

	result := make(map[string]any)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		name := fieldName(field)
		if name == "-" {
			continue
		}

		fieldVal := val.Field(i)
		if isZeroValue(fieldVal) {
			continue
		}

		serialized, err := value(fieldVal)
		if err != nil {
			return nil, err
		}
		if serialized != nil {
			result[name] = serialized
		}
	}

	return result, nil
}

func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	case reflect.Struct:
		if v.CanInterface() {
			if zeroer, ok := v.Interface().(interface{ IsZero() bool }); ok {
				return zeroer.IsZero()
			}
		}
		return false
	default:
		return v.IsZero()
	}
}

func value(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}

	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		if v.Kind() == reflect.Interface {
			return value(v.Elem())
		}
	}

	if v.CanInterface() {
		if marshaler, ok := v.Interface().(json.Marshaler); ok {
			return viaJSON(marshaler)
		}
	}

	switch v.Kind() {
	case reflect.Ptr:
		return value(v.Elem())

	case reflect.Struct:
		return Properties(v.Interface())

	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return nil, nil
		}
		result := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := value(v.Index(i))
			if err != nil {
				return nil, err
			}
			result[i] = elem
		}
		return result, nil

	case reflect.Map:
		if v.Len() == 0 {
			return nil, nil
		}
		result := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			elem, err := value(iter.Value())
			if err != nil {
				return nil, err
			}
			result[iter.Key().String()] = elem
		}
		return result, nil

	case reflect.String:
		return v.String(), nil

	case reflect.Bool:
		return v.Bool(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil

	case reflect.Float32, reflect.Float64:
		return v.Float(), nil

	default:
		return viaJSON(v.Interface())
	}
}

func viaJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// subVariable matches ${Name} and ${Name.Attribute} in Fn::Sub strings. ${!Literal} is skipped.
var subVariable = regexp.MustCompile(`\$\{([^!}][^}]*)\}`)

// Kind classifies a reference found by Visit.
type Kind int

const (
	// KindRef is a Ref or a ${Name} Fn::Sub variable.
	KindRef Kind = iota
	// KindGetAtt is an Fn::GetAtt or a ${Name.Attribute} Fn::Sub variable.
	KindGetAtt
)

// References returns the sorted, de-duplicated logical names referenced from v through
// Ref, Fn::GetAtt and Fn::Sub. Pseudo-parameters (AWS::*) and Fn::Sub map variables
// are not references.
func References(v any) []string {
	seen := make(map[string]bool)
	Visit(v, func(name string, _ Kind) {
		seen[name] = true
	})

	refs := make([]string, 0, len(seen))
	for name := range seen {
		refs = append(refs, name)
	}
	sort.Strings(refs)
	return refs
}

// Visit calls fn for every reference in the serialized value v, in traversal order.
func Visit(v any, fn func(name string, kind Kind)) {
	switch val := v.(type) {
	case map[string]any:
		if len(val) == 1 && visitIntrinsic(val, fn) {
			return
		}
		for _, child := range val {
			Visit(child, fn)
		}
	case []any:
		for _, child := range val {
			Visit(child, fn)
		}
	}
}

func visitIntrinsic(m map[string]any, fn func(string, Kind)) bool {
	if ref, ok := m["Ref"].(string); ok {
		emit(ref, KindRef, fn)
		return true
	}

	if getAtt, ok := m["Fn::GetAtt"]; ok {
		switch args := getAtt.(type) {
		case []any:
			if len(args) > 0 {
				if name, ok := args[0].(string); ok {
					emit(name, KindGetAtt, fn)
				}
			}
		case string:
			name, _, _ := strings.Cut(args, ".")
			emit(name, KindGetAtt, fn)
		}
		return true
	}

	if sub, ok := m["Fn::Sub"]; ok {
		switch args := sub.(type) {
		case string:
			visitSub(args, nil, fn)
		case []any:
			if len(args) == 0 {
				return true
			}
			var local map[string]any
			if len(args) > 1 {
				local, _ = args[1].(map[string]any)
				for _, child := range local {
					Visit(child, fn)
				}
			}
			if s, ok := args[0].(string); ok {
				visitSub(s, local, fn)
			}
		}
		return true
	}

	return false
}

func visitSub(s string, local map[string]any, fn func(string, Kind)) {
	for _, match := range subVariable.FindAllStringSubmatch(s, -1) {
		name, attr, hasAttr := strings.Cut(match[1], ".")
		if _, ok := local[name]; ok {
			continue
		}
		kind := KindRef
		if hasAttr && attr != "" {
			kind = KindGetAtt
		}
		emit(name, kind, fn)
	}
}

func emit(name string, kind Kind, fn func(string, Kind)) {
	if name == "" || strings.HasPrefix(name, "AWS::") {
		return
	}
	fn(name, kind)
}

// Value converts an arbitrary value, such as an output value built from intrinsics,
// into plain maps, slices and scalars.
func Value(v any) (any, error) {
	return value(reflect.ValueOf(v))
}
