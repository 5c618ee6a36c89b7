package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/asaidimu/go-pgtable/core/query"
	"github.com/asaidimu/go-pgtable/core/schema"
)

// DefaultReadLimit caps the rows returned by Read when the caller does not
// supply a limit. An explicit non-positive limit disables the cap.
const DefaultReadLimit = 10000

// Read reflects the table, composes the supplied directives into a query and
// returns the matching rows. All directives combine with logical AND. A
// cursor directive naming a column the table does not have is dropped with a
// warning; every other unknown column fails the read.
func (c *Client) Read(ctx context.Context, tableName string, opts *query.ReadOptions) ([]schema.Row, error) {
	finish := c.observe("read", tableName, opts, TableReadStart, TableReadSuccess, TableReadFailed)

	rows, err := c.read(ctx, tableName, opts)
	finish(int64(len(rows)), err)
	return rows, err
}

func (c *Client) read(ctx context.Context, tableName string, opts *query.ReadOptions) ([]schema.Row, error) {
	table, err := c.Table(ctx, tableName)
	if err != nil {
		return nil, err
	}

	if opts == nil {
		opts = &query.ReadOptions{}
	} else {
		clone := *opts
		opts = &clone
	}
	if opts.Limit == nil {
		limit := DefaultReadLimit
		opts.Limit = &limit
	}

	if opts.After != nil && !table.HasColumn(opts.After.Column) {
		c.logger.Warn("dropping cursor on unknown column",
			zap.String("table", tableName),
			zap.String("column", opts.After.Column))
	}

	dsl, err := query.Compose(table, opts)
	if err != nil {
		return nil, err
	}

	return c.executeSelect(ctx, table, dsl)
}

// Query executes a hand-built QueryDSL against the table. It is the escape
// hatch for filter shapes the read directives do not cover, such as OR
// groups built with the query builder.
func (c *Client) Query(ctx context.Context, tableName string, dsl *query.QueryDSL) ([]schema.Row, error) {
	finish := c.observe("query", tableName, dsl, TableReadStart, TableReadSuccess, TableReadFailed)

	rows, err := c.queryDSL(ctx, tableName, dsl)
	finish(int64(len(rows)), err)
	return rows, err
}

func (c *Client) queryDSL(ctx context.Context, tableName string, dsl *query.QueryDSL) ([]schema.Row, error) {
	table, err := c.Table(ctx, tableName)
	if err != nil {
		return nil, err
	}
	return c.executeSelect(ctx, table, dsl)
}

// executeSelect generates the SELECT for a composed query and runs it on a
// connection scoped to the call.
func (c *Client) executeSelect(ctx context.Context, table *schema.Table, dsl *query.QueryDSL) ([]schema.Row, error) {
	generator, err := NewGenerator(table)
	if err != nil {
		return nil, err
	}
	sql, params, err := generator.SelectSQL(dsl)
	if err != nil {
		return nil, err
	}

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	c.logger.Debug("executing select", zap.String("table", table.Name), zap.String("sql", sql))

	pgxRows, err := conn.Query(ctx, sql, params...)
	if err != nil {
		return nil, fmt.Errorf("query on table %q failed: %w", table.Name, err)
	}
	defer pgxRows.Close()

	return materializeRows(pgxRows)
}

// materializeRows converts a pgx result set into generic rows keyed by
// column name.
func materializeRows(rows pgx.Rows) ([]schema.Row, error) {
	fields := rows.FieldDescriptions()
	result := make([]schema.Row, 0)

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}
		row := make(schema.Row, len(fields))
		for i, field := range fields {
			row[field.Name] = normalizeValue(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return result, nil
}

// normalizeValue maps driver-specific value types onto the small set of Go
// types rows expose. NUMERIC columns become decimals so precision survives;
// a NUMERIC NaN becomes nil since decimals cannot represent it and zero
// would be a silent value change.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case pgtype.Numeric:
		if !v.Valid || v.NaN {
			return nil
		}
		return decimal.NewFromBigInt(v.Int, v.Exp)
	case [16]byte:
		// UUID columns surface as raw bytes; keep the canonical text form.
		return uuid.UUID(v).String()
	default:
		return value
	}
}

// LastRow returns the row with the greatest value in the given column, or
// nil when the table is empty.
func (c *Client) LastRow(ctx context.Context, tableName, column string) (schema.Row, error) {
	limit := 1
	rows, err := c.Read(ctx, tableName, &query.ReadOptions{
		OrderBy:    column,
		Descending: true,
		Limit:      &limit,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// FirstRowAfter returns the first row, in ascending column order, whose
// column value is strictly greater than the cursor value. It returns nil
// when no such row exists.
func (c *Client) FirstRowAfter(ctx context.Context, tableName, column string, value query.FilterValue) (schema.Row, error) {
	limit := 1
	rows, err := c.Read(ctx, tableName, &query.ReadOptions{
		After:   &query.CursorFilter{Column: column, Value: value},
		OrderBy: column,
		Limit:   &limit,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ValuesNotIn returns the distinct values of columnA in tableA that do not
// appear in columnB of tableB.
func (c *Client) ValuesNotIn(ctx context.Context, tableA, columnA, tableB, columnB string) ([]any, error) {
	source, err := c.Table(ctx, tableA)
	if err != nil {
		return nil, err
	}
	target, err := c.Table(ctx, tableB)
	if err != nil {
		return nil, err
	}
	if !source.HasColumn(columnA) {
		return nil, fmt.Errorf("column %q not found in table %q", columnA, tableA)
	}
	if !target.HasColumn(columnB) {
		return nil, fmt.Errorf("column %q not found in table %q", columnB, tableB)
	}

	srcGen, err := NewGenerator(source)
	if err != nil {
		return nil, err
	}
	dstGen, err := NewGenerator(target)
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf(
		"SELECT DISTINCT a.%s FROM %s a WHERE NOT EXISTS (SELECT 1 FROM %s b WHERE b.%s = a.%s)",
		QuoteIdentifier(columnA),
		srcGen.qualifiedName(),
		dstGen.qualifiedName(),
		QuoteIdentifier(columnB),
		QuoteIdentifier(columnA),
	)

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	pgxRows, err := conn.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("anti-join query failed: %w", err)
	}
	defer pgxRows.Close()

	var values []any
	for pgxRows.Next() {
		value, err := pgxRows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}
		values = append(values, normalizeValue(value[0]))
	}
	if err := pgxRows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return values, nil
}
