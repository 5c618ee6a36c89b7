package utils

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/asaidimu/go-pgtable/core/schema"
)

// StructToRow converts a Go struct into a generic row keyed by the struct's
// JSON field names.
//
// The struct is marshaled to JSON and unmarshaled into a map, so `json` tags
// and omitempty are honored. Nested structs surface as json.RawMessage so
// their exact serialized form is preserved in the row.
//
// The input must be a struct or a non-nil pointer to one.
func StructToRow[T any](record T) (schema.Row, error) {
	val := reflect.ValueOf(record)
	if !val.IsValid() {
		return nil, fmt.Errorf("input record cannot be nil")
	}
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("input record cannot be a nil pointer")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input record must be a struct or a pointer to a struct, got %s", val.Kind())
	}

	jsonBytes, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("StructToRow: failed to marshal record: %w", err)
	}

	var tempMap map[string]any
	if err := json.Unmarshal(jsonBytes, &tempMap); err != nil {
		return nil, fmt.Errorf("StructToRow: failed to unmarshal into map: %w", err)
	}

	row := make(schema.Row, len(tempMap))
	for key, value := range tempMap {
		if nested, ok := value.(map[string]any); ok {
			nestedBytes, err := json.Marshal(nested)
			if err != nil {
				return nil, fmt.Errorf("StructToRow: error re-marshaling nested value for key %q: %w", key, err)
			}
			row[key] = json.RawMessage(nestedBytes)
		} else {
			row[key] = value
		}
	}
	return row, nil
}

// RowToStruct converts a generic row into a new instance of the struct type
// T, the inverse of StructToRow. json.RawMessage values in the row are
// unmarshaled directly into the corresponding fields.
func RowToStruct[T any](row schema.Row) (T, error) {
	var zero T

	if row == nil {
		return zero, fmt.Errorf("RowToStruct: input row cannot be nil")
	}

	typ := reflect.TypeOf(zero)
	if typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return zero, fmt.Errorf("RowToStruct: type parameter must be a struct type")
	}

	jsonBytes, err := json.Marshal(row)
	if err != nil {
		return zero, fmt.Errorf("RowToStruct: failed to marshal row: %w", err)
	}

	var result T
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return zero, fmt.Errorf("RowToStruct: failed to unmarshal into struct: %w", err)
	}
	return result, nil
}
