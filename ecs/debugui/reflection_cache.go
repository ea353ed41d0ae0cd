package debugui

import (
	"reflect"
	"sync"

	"github.com/plus3/strata/ecs"
)

type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	IsPointer bool
}

// fieldsByType caches the exported fields of inspected component types.
var fieldsByType sync.Map // reflect.Type -> []FieldInfo

// FieldsOf returns the exported fields of t, or nil when t is not a struct.
func FieldsOf(t reflect.Type) []FieldInfo {
	if cached, ok := fieldsByType.Load(t); ok {
		return cached.([]FieldInfo)
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			fieldType := field.Type
			isPointer := fieldType.Kind() == reflect.Ptr
			if isPointer {
				fieldType = fieldType.Elem()
			}

			fields = append(fields, FieldInfo{
				Name:      field.Name,
				Type:      fieldType,
				Index:     i,
				IsPointer: isPointer,
			})
		}
	}

	actual, _ := fieldsByType.LoadOrStore(t, fields)
	return actual.([]FieldInfo)
}

// KindFields returns the exported fields of the component type behind kind.
func KindFields(kind ecs.Kind) []FieldInfo {
	t := kind.Type()
	if t == nil {
		return nil
	}
	return FieldsOf(t)
}
