package postgres

import (
	"context"
	"fmt"

	"github.com/asaidimu/go-pgtable/core/schema"
)

// TableExists checks whether a table exists in the configured schema.
func (c *Client) TableExists(ctx context.Context, tableName string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = $1
			  AND table_name = $2
		)
	`

	var exists bool
	if err := c.pool.QueryRow(ctx, query, c.cfg.Schema, tableName).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check table existence: %w", err)
	}
	return exists, nil
}

// Table reflects a table's definition from the live catalog: its columns in
// ordinal order, with types, nullability, defaults and primary key
// membership. A table with no columns in the configured schema yields
// ErrTableNotFound.
func (c *Client) Table(ctx context.Context, tableName string) (*schema.Table, error) {
	query := `
		SELECT
			column_name,
			data_type,
			character_maximum_length,
			numeric_precision,
			numeric_scale,
			is_nullable,
			column_default,
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = $1
		  AND table_name = $2
		ORDER BY ordinal_position
	`

	// Primary keys are fetched first so at most one pooled connection is
	// held at a time; querying while the column rows are still open would
	// deadlock a pool capped at a single connection.
	pkColumns, err := c.primaryKeyColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get primary keys for %q: %w", tableName, err)
	}
	isPK := make(map[string]bool, len(pkColumns))
	for _, pk := range pkColumns {
		isPK[pk] = true
	}

	rows, err := c.pool.Query(ctx, query, c.cfg.Schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to reflect table %q: %w", tableName, err)
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var (
			columnName   string
			dataType     string
			charMaxLen   *int
			numPrecision *int
			numScale     *int
			isNullable   string
			columnDef    *string
			position     int
		)
		if err := rows.Scan(&columnName, &dataType, &charMaxLen, &numPrecision, &numScale, &isNullable, &columnDef, &position); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}

		fullType := dataType
		if charMaxLen != nil {
			fullType = fmt.Sprintf("%s(%d)", dataType, *charMaxLen)
		} else if numPrecision != nil && numScale != nil {
			fullType = fmt.Sprintf("%s(%d,%d)", dataType, *numPrecision, *numScale)
		}

		columns = append(columns, schema.Column{
			Name:         columnName,
			DataType:     fullType,
			Nullable:     isNullable == "YES",
			Default:      columnDef,
			IsPrimaryKey: isPK[columnName],
			Position:     position,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrTableNotFound, c.cfg.Schema, tableName)
	}

	return &schema.Table{
		Schema:  c.cfg.Schema,
		Name:    tableName,
		Columns: columns,
	}, nil
}

// primaryKeyColumns returns the primary key column names in key order. A
// table without a primary key (or not yet visible) returns an empty list.
func (c *Client) primaryKeyColumns(ctx context.Context, tableName string) ([]string, error) {
	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON kcu.constraint_name = tc.constraint_name
			AND kcu.table_schema = tc.table_schema
			AND kcu.table_name = tc.table_name
		WHERE tc.table_schema = $1
		  AND tc.table_name = $2
		  AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position
	`

	rows, err := c.pool.Query(ctx, query, c.cfg.Schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query primary key columns: %w", err)
	}
	defer rows.Close()

	var pkColumns []string
	for rows.Next() {
		var colName string
		if err := rows.Scan(&colName); err != nil {
			return nil, fmt.Errorf("failed to scan primary key column: %w", err)
		}
		pkColumns = append(pkColumns, colName)
	}
	return pkColumns, rows.Err()
}

// TableNames returns all base table names in the configured schema.
func (c *Client) TableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := c.pool.Query(ctx, query, c.cfg.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Schemas returns all user schemas in the database.
func (c *Client) Schemas(ctx context.Context) ([]string, error) {
	query := `
		SELECT schema_name
		FROM information_schema.schemata
		WHERE schema_name NOT IN ('pg_catalog', 'information_schema')
		ORDER BY schema_name
	`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get schemas: %w", err)
	}
	defer rows.Close()

	var schemas []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan schema name: %w", err)
		}
		schemas = append(schemas, name)
	}
	return schemas, rows.Err()
}
