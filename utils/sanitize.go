package utils

import (
	"encoding/json"
	"fmt"

	"github.com/asaidimu/go-pgtable/core/schema"
)

// SanitizeRow returns a copy of the row in which every value that cannot be
// serialized to JSON is replaced by its string form. The input row is not
// modified.
func SanitizeRow(row schema.Row) schema.Row {
	sanitized := make(schema.Row, len(row))
	for key, value := range row {
		if _, err := json.Marshal(value); err != nil {
			sanitized[key] = fmt.Sprintf("%v", value)
		} else {
			sanitized[key] = value
		}
	}
	return sanitized
}

// SanitizeRows sanitizes a slice of rows. See SanitizeRow.
func SanitizeRows(rows []schema.Row) []schema.Row {
	sanitized := make([]schema.Row, len(rows))
	for i, row := range rows {
		sanitized[i] = SanitizeRow(row)
	}
	return sanitized
}
