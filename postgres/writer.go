package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/asaidimu/go-pgtable/core/query"
	"github.com/asaidimu/go-pgtable/core/schema"
)

// Insert appends the given records to the table inside a single transaction
// and returns the number of rows written. Record keys must be columns of the
// table; keys absent from a record insert NULL.
func (c *Client) Insert(ctx context.Context, tableName string, records []schema.Row) (int64, error) {
	finish := c.observe("insert", tableName, len(records), TableWriteStart, TableWriteSuccess, TableWriteFailed)

	count, err := c.insert(ctx, tableName, records)
	finish(count, err)
	return count, err
}

func (c *Client) insert(ctx context.Context, tableName string, records []schema.Row) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	table, err := c.Table(ctx, tableName)
	if err != nil {
		return 0, err
	}
	generator, err := NewGenerator(table)
	if err != nil {
		return 0, err
	}
	sql, params, err := generator.InsertSQL(records)
	if err != nil {
		return 0, err
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, sql, params...)
	if err != nil {
		return 0, fmt.Errorf("insert into table %q failed: %w", tableName, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit insert: %w", err)
	}

	c.logger.Debug("inserted rows",
		zap.String("table", tableName),
		zap.Int64("rows", tag.RowsAffected()))
	return tag.RowsAffected(), nil
}

// Clear deletes every row in the table. The table itself survives.
func (c *Client) Clear(ctx context.Context, tableName string) (int64, error) {
	finish := c.observe("clear", tableName, nil, TableWriteStart, TableWriteSuccess, TableWriteFailed)

	count, err := c.clear(ctx, tableName)
	finish(count, err)
	return count, err
}

func (c *Client) clear(ctx context.Context, tableName string) (int64, error) {
	table, err := c.Table(ctx, tableName)
	if err != nil {
		return 0, err
	}
	generator, err := NewGenerator(table)
	if err != nil {
		return 0, err
	}
	sql, params, err := generator.DeleteSQL(nil, true)
	if err != nil {
		return 0, err
	}

	tag, err := c.pool.Exec(ctx, sql, params...)
	if err != nil {
		return 0, fmt.Errorf("failed to clear table %q: %w", tableName, err)
	}
	return tag.RowsAffected(), nil
}

// CopyTable creates a new table from the rows of an existing one. A
// positive limit caps the copied rows; zero or negative copies everything.
// The destination must not already exist.
func (c *Client) CopyTable(ctx context.Context, source, destination string, limit int) error {
	finish := c.observe("copy", destination, source, TableWriteStart, TableWriteSuccess, TableWriteFailed)

	err := c.copyTable(ctx, source, destination, limit)
	finish(0, err)
	return err
}

func (c *Client) copyTable(ctx context.Context, source, destination string, limit int) error {
	if _, err := c.Table(ctx, source); err != nil {
		return err
	}
	exists, err := c.TableExists(ctx, destination)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("destination table %q already exists", destination)
	}

	qualify := func(name string) string {
		return QuoteIdentifier(c.cfg.Schema) + "." + QuoteIdentifier(name)
	}
	sql := fmt.Sprintf("CREATE TABLE %s AS SELECT * FROM %s", qualify(destination), qualify(source))
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", limit)
	}

	if _, err := c.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to copy table %q to %q: %w", source, destination, err)
	}
	return nil
}

// BatchResult reports how far a batched update got. On failure the batches
// already committed stay committed.
type BatchResult struct {
	RowsUpdated      int64
	BatchesCommitted int
	BatchesTotal     int
}

// DefaultBatchSize is the batch size used when BatchUpdate is called with a
// non-positive one.
const DefaultBatchSize = 1000

// BatchUpdate applies per-row updates in batches, committing one transaction
// per batch. Each row must carry the merge column, which selects the target
// rows, and every column named in setColumns. A failed batch stops the run;
// the returned result reflects the committed progress.
func (c *Client) BatchUpdate(ctx context.Context, tableName string, rows []schema.Row, mergeColumn string, setColumns []string, batchSize int) (BatchResult, error) {
	finish := c.observe("batch-update", tableName, len(rows), TableWriteStart, TableWriteSuccess, TableWriteFailed)

	result, err := c.batchUpdate(ctx, tableName, rows, mergeColumn, setColumns, batchSize)
	finish(result.RowsUpdated, err)
	return result, err
}

func (c *Client) batchUpdate(ctx context.Context, tableName string, rows []schema.Row, mergeColumn string, setColumns []string, batchSize int) (BatchResult, error) {
	var result BatchResult
	if len(rows) == 0 {
		return result, nil
	}
	if len(setColumns) == 0 {
		return result, fmt.Errorf("no columns to set")
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	table, err := c.Table(ctx, tableName)
	if err != nil {
		return result, err
	}
	if !table.HasColumn(mergeColumn) {
		return result, fmt.Errorf("merge column %q not found in table %q", mergeColumn, tableName)
	}
	for _, col := range setColumns {
		if !table.HasColumn(col) {
			return result, fmt.Errorf("set column %q not found in table %q", col, tableName)
		}
	}
	generator, err := NewGenerator(table)
	if err != nil {
		return result, err
	}

	result.BatchesTotal = (len(rows) + batchSize - 1) / batchSize
	started := time.Now()

	for offset := 0; offset < len(rows); offset += batchSize {
		end := offset + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[offset:end]

		updated, err := c.commitBatch(ctx, generator, batch, mergeColumn, setColumns)
		if err != nil {
			return result, fmt.Errorf("batch %d/%d failed on table %q: %w",
				result.BatchesCommitted+1, result.BatchesTotal, tableName, err)
		}
		result.RowsUpdated += updated
		result.BatchesCommitted++

		elapsed := time.Since(started)
		remaining := time.Duration(0)
		if result.BatchesCommitted > 0 {
			perBatch := elapsed / time.Duration(result.BatchesCommitted)
			remaining = perBatch * time.Duration(result.BatchesTotal-result.BatchesCommitted)
		}
		c.logger.Info("batch committed",
			zap.String("table", tableName),
			zap.Int("batch", result.BatchesCommitted),
			zap.Int("total", result.BatchesTotal),
			zap.Int64("rowsUpdated", result.RowsUpdated),
			zap.Duration("eta", remaining.Round(time.Second)))
	}

	return result, nil
}

// commitBatch applies one batch of row updates inside a single transaction.
func (c *Client) commitBatch(ctx context.Context, generator *Generator, batch []schema.Row, mergeColumn string, setColumns []string) (int64, error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var updated int64
	for _, row := range batch {
		mergeValue, ok := row[mergeColumn]
		if !ok {
			return 0, fmt.Errorf("row missing merge column %q", mergeColumn)
		}
		updates := make(map[string]any, len(setColumns))
		for _, col := range setColumns {
			value, ok := row[col]
			if !ok {
				return 0, fmt.Errorf("row missing set column %q", col)
			}
			updates[col] = value
		}
		filter := &query.QueryFilter{Condition: &query.FilterCondition{
			Field:    mergeColumn,
			Operator: query.ComparisonOperatorEq,
			Value:    mergeValue,
		}}
		sql, params, err := generator.UpdateSQL(updates, filter)
		if err != nil {
			return 0, err
		}
		tag, err := tx.Exec(ctx, sql, params...)
		if err != nil {
			return 0, err
		}
		updated += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return updated, nil
}
