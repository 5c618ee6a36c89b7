package postgres

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// ColumnSpec names a column to add and its SQL type.
type ColumnSpec struct {
	Name string
	Type string
}

// HasColumns reports, per name, whether the table defines the column.
func (c *Client) HasColumns(ctx context.Context, tableName string, names []string) (map[string]bool, error) {
	table, err := c.Table(ctx, tableName)
	if err != nil {
		return nil, err
	}
	result := make(map[string]bool, len(names))
	for _, name := range names {
		result[name] = table.HasColumn(name)
	}
	return result, nil
}

// AddColumns adds the given columns to the table, skipping any that already
// exist.
func (c *Client) AddColumns(ctx context.Context, tableName string, columns []ColumnSpec) error {
	finish := c.observe("add-columns", tableName, columns, TableAlterStart, TableAlterSuccess, TableAlterFailed)

	err := c.addColumns(ctx, tableName, columns)
	finish(0, err)
	return err
}

func (c *Client) addColumns(ctx context.Context, tableName string, columns []ColumnSpec) error {
	table, err := c.Table(ctx, tableName)
	if err != nil {
		return err
	}

	qualified := QuoteIdentifier(c.cfg.Schema) + "." + QuoteIdentifier(tableName)
	for _, column := range columns {
		if table.HasColumn(column.Name) {
			c.logger.Debug("column already exists, skipping",
				zap.String("table", tableName),
				zap.String("column", column.Name))
			continue
		}
		sql := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
			qualified, QuoteIdentifier(column.Name), column.Type)
		if _, err := c.pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to add column %q to table %q: %w", column.Name, tableName, err)
		}
		c.logger.Info("added column",
			zap.String("table", tableName),
			zap.String("column", column.Name),
			zap.String("type", column.Type))
	}
	return nil
}

// RenameColumns renames columns per the old-to-new mapping. Names the table
// does not have are skipped with a warning. Renames are applied in sorted
// old-name order.
func (c *Client) RenameColumns(ctx context.Context, tableName string, renames map[string]string) error {
	finish := c.observe("rename-columns", tableName, renames, TableAlterStart, TableAlterSuccess, TableAlterFailed)

	err := c.renameColumns(ctx, tableName, renames)
	finish(0, err)
	return err
}

func (c *Client) renameColumns(ctx context.Context, tableName string, renames map[string]string) error {
	table, err := c.Table(ctx, tableName)
	if err != nil {
		return err
	}

	oldNames := make([]string, 0, len(renames))
	for oldName := range renames {
		oldNames = append(oldNames, oldName)
	}
	sort.Strings(oldNames)

	qualified := QuoteIdentifier(c.cfg.Schema) + "." + QuoteIdentifier(tableName)
	for _, oldName := range oldNames {
		newName := renames[oldName]
		if !table.HasColumn(oldName) {
			c.logger.Warn("column not found, skipping rename",
				zap.String("table", tableName),
				zap.String("column", oldName))
			continue
		}
		sql := fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
			qualified, QuoteIdentifier(oldName), QuoteIdentifier(newName))
		if _, err := c.pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to rename column %q to %q on table %q: %w", oldName, newName, tableName, err)
		}
	}
	return nil
}
