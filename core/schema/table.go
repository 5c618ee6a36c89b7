// Package schema defines the reflected metadata types for tables and rows.
// Metadata is owned by the database: it is discovered at runtime from the
// live catalog rather than declared statically, and is treated as read-only
// by the rest of the library.
package schema

// Column describes a single column of a reflected table.
type Column struct {
	Name         string  // The column name as reported by the catalog.
	DataType     string  // The engine's type name (e.g. "integer", "numeric(18,2)").
	Nullable     bool    // Whether the column accepts NULL.
	Default      *string // The column default expression, if any.
	IsPrimaryKey bool    // Whether the column participates in the primary key.
	Position     int     // 1-based ordinal position within the table.
}

// Table is the reflected definition of a database table: its schema
// (namespace), name, and ordered column set.
type Table struct {
	Schema  string
	Name    string
	Columns []Column
}

// Row is a single result row: a mapping from column name to value. Rows have
// no identity beyond the values themselves.
type Row map[string]any

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the table defines a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Column looks up a column definition by name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// PrimaryKey returns the names of the primary key columns in key order.
func (t *Table) PrimaryKey() []string {
	var keys []string
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			keys = append(keys, c.Name)
		}
	}
	return keys
}
