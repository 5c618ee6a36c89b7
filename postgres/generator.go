package postgres

import (
	"fmt"
	"sort"
	"strings"

	"github.com/asaidimu/go-pgtable/core/query"
	"github.com/asaidimu/go-pgtable/core/schema"
)

// Generator translates a QueryDSL into parameterized PostgreSQL statements
// against one reflected table. All values travel as $n parameters; only
// identifiers and the row cap are interpolated, and identifiers are always
// quoted.
type Generator struct {
	table *schema.Table
}

// NewGenerator creates a query generator for the given reflected table.
func NewGenerator(table *schema.Table) (*Generator, error) {
	if table == nil {
		return nil, fmt.Errorf("table cannot be nil")
	}
	if table.Name == "" {
		return nil, fmt.Errorf("table must have a name")
	}
	return &Generator{table: table}, nil
}

// QuoteIdentifier safely quotes an identifier, such as a table or column
// name, so names that are keywords or contain special characters survive.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// qualifiedName returns the schema-qualified, quoted table name.
func (g *Generator) qualifiedName() string {
	if g.table.Schema == "" {
		return QuoteIdentifier(g.table.Name)
	}
	return QuoteIdentifier(g.table.Schema) + "." + QuoteIdentifier(g.table.Name)
}

// columnSQL validates a column reference and returns its quoted form.
func (g *Generator) columnSQL(name string) (string, error) {
	if !g.table.HasColumn(name) {
		return "", fmt.Errorf("column %q not found in table %q", name, g.table.Name)
	}
	return QuoteIdentifier(name), nil
}

// SelectSQL creates a complete SELECT statement and its parameters from a
// QueryDSL object.
func (g *Generator) SelectSQL(dsl *query.QueryDSL) (string, []any, error) {
	if dsl == nil {
		return "", nil, fmt.Errorf("QueryDSL cannot be nil")
	}

	var selectFields []string
	var queryParams []any

	if len(dsl.Projection) > 0 {
		for _, field := range dsl.Projection {
			accessor, err := g.columnSQL(field)
			if err != nil {
				return "", nil, fmt.Errorf("projection error: %w", err)
			}
			selectFields = append(selectFields, accessor)
		}
	} else {
		selectFields = append(selectFields, "*")
	}

	var whereSQL string
	if dsl.Filters != nil {
		var err error
		whereSQL, err = g.buildWhereClause(dsl.Filters, &queryParams)
		if err != nil {
			return "", nil, fmt.Errorf("error building WHERE clause: %w", err)
		}
	}

	var orderByClauses []string
	for _, sortCfg := range dsl.Sort {
		accessor, err := g.columnSQL(sortCfg.Field)
		if err != nil {
			return "", nil, fmt.Errorf("sort error: %w", err)
		}
		orderByClauses = append(orderByClauses, fmt.Sprintf("%s %s", accessor, strings.ToUpper(string(sortCfg.Direction))))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("SELECT %s FROM %s", strings.Join(selectFields, ", "), g.qualifiedName()))
	if whereSQL != "" {
		sb.WriteString(" WHERE " + whereSQL)
	}
	if len(orderByClauses) > 0 {
		sb.WriteString(" ORDER BY " + strings.Join(orderByClauses, ", "))
	}
	if dsl.Limit != nil && *dsl.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", *dsl.Limit))
	}

	return sb.String(), queryParams, nil
}

// buildWhereClause recursively builds the WHERE clause from a QueryFilter.
func (g *Generator) buildWhereClause(filter *query.QueryFilter, params *[]any) (string, error) {
	if filter.Condition != nil {
		return g.buildCondition(filter.Condition, params)
	}
	if filter.Group != nil {
		if filter.Group.Operator == "" {
			return "", fmt.Errorf("logical operator missing in filter group")
		}
		var clauses []string
		for i := range filter.Group.Conditions {
			clause, err := g.buildWhereClause(&filter.Group.Conditions[i], params)
			if err != nil {
				return "", err
			}
			if clause != "" {
				clauses = append(clauses, clause)
			}
		}
		if len(clauses) == 0 {
			return "", nil
		}
		op := strings.ToUpper(string(filter.Group.Operator))
		return "(" + strings.Join(clauses, " "+op+" ") + ")", nil
	}
	return "", fmt.Errorf("invalid filter structure: neither Condition nor Group is set")
}

// nextPlaceholder appends a parameter and returns its $n placeholder.
func nextPlaceholder(params *[]any, value any) string {
	*params = append(*params, value)
	return fmt.Sprintf("$%d", len(*params))
}

// filterValues normalizes the value of a membership condition to a slice.
func filterValues(value query.FilterValue) []any {
	switch v := value.(type) {
	case nil:
		return nil
	case []query.FilterValue:
		vals := make([]any, len(v))
		for i, item := range v {
			vals[i] = item
		}
		return vals
	case []any:
		return v
	default:
		return []any{v}
	}
}

// buildCondition translates a single FilterCondition into a SQL fragment.
func (g *Generator) buildCondition(cond *query.FilterCondition, params *[]any) (string, error) {
	accessor, err := g.columnSQL(cond.Field)
	if err != nil {
		return "", err
	}

	switch cond.Operator {
	case query.ComparisonOperatorEq:
		return accessor + " = " + nextPlaceholder(params, cond.Value), nil
	case query.ComparisonOperatorNeq:
		return accessor + " <> " + nextPlaceholder(params, cond.Value), nil
	case query.ComparisonOperatorLt:
		return accessor + " < " + nextPlaceholder(params, cond.Value), nil
	case query.ComparisonOperatorLte:
		return accessor + " <= " + nextPlaceholder(params, cond.Value), nil
	case query.ComparisonOperatorGt:
		return accessor + " > " + nextPlaceholder(params, cond.Value), nil
	case query.ComparisonOperatorGte:
		return accessor + " >= " + nextPlaceholder(params, cond.Value), nil
	case query.ComparisonOperatorIn, query.ComparisonOperatorNin:
		vals := filterValues(cond.Value)
		if len(vals) == 0 {
			// IN over an empty list is always false, NOT IN always true.
			if cond.Operator == query.ComparisonOperatorIn {
				return "FALSE", nil
			}
			return "TRUE", nil
		}
		placeholders := make([]string, len(vals))
		for i, v := range vals {
			placeholders[i] = nextPlaceholder(params, v)
		}
		op := "IN"
		if cond.Operator == query.ComparisonOperatorNin {
			op = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", accessor, op, strings.Join(placeholders, ", ")), nil
	case query.ComparisonOperatorIsNull:
		return accessor + " IS NULL", nil
	case query.ComparisonOperatorNotNull:
		return accessor + " IS NOT NULL", nil
	default:
		return "", fmt.Errorf("unsupported comparison operator: %s", cond.Operator)
	}
}

// InsertSQL creates a multi-row INSERT statement. The column set is the
// union of the record keys, in sorted order for a deterministic statement.
func (g *Generator) InsertSQL(records []schema.Row) (string, []any, error) {
	if len(records) == 0 {
		return "", nil, fmt.Errorf("no records provided for insert")
	}

	fieldSet := make(map[string]bool)
	for _, record := range records {
		for fieldName := range record {
			if !g.table.HasColumn(fieldName) {
				return "", nil, fmt.Errorf("column %q not found in table %q", fieldName, g.table.Name)
			}
			fieldSet[fieldName] = true
		}
	}
	if len(fieldSet) == 0 {
		return "", nil, fmt.Errorf("no valid columns found in records")
	}

	fields := make([]string, 0, len(fieldSet))
	for fieldName := range fieldSet {
		fields = append(fields, fieldName)
	}
	sort.Strings(fields)

	quotedFields := make([]string, len(fields))
	for i, field := range fields {
		quotedFields[i] = QuoteIdentifier(field)
	}

	var valuesClauses []string
	var queryParams []any
	for _, record := range records {
		rowPlaceholders := make([]string, len(fields))
		for i, fieldName := range fields {
			value, exists := record[fieldName]
			if !exists {
				value = nil
			}
			rowPlaceholders[i] = nextPlaceholder(&queryParams, value)
		}
		valuesClauses = append(valuesClauses, "("+strings.Join(rowPlaceholders, ", ")+")")
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		g.qualifiedName(),
		strings.Join(quotedFields, ", "),
		strings.Join(valuesClauses, ", "))
	return sql, queryParams, nil
}

// UpdateSQL creates an UPDATE statement setting the named columns, with an
// optional filter. Set columns are applied in sorted order.
func (g *Generator) UpdateSQL(updates map[string]any, filters *query.QueryFilter) (string, []any, error) {
	if len(updates) == 0 {
		return "", nil, fmt.Errorf("no columns provided for update")
	}

	fields := make([]string, 0, len(updates))
	for fieldName := range updates {
		fields = append(fields, fieldName)
	}
	sort.Strings(fields)

	var setClauses []string
	var queryParams []any
	for _, fieldName := range fields {
		accessor, err := g.columnSQL(fieldName)
		if err != nil {
			return "", nil, fmt.Errorf("update set clause error: %w", err)
		}
		setClauses = append(setClauses, accessor+" = "+nextPlaceholder(&queryParams, updates[fieldName]))
	}

	var whereSQL string
	if filters != nil {
		var err error
		whereSQL, err = g.buildWhereClause(filters, &queryParams)
		if err != nil {
			return "", nil, fmt.Errorf("error building WHERE clause for update: %w", err)
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("UPDATE %s SET %s", g.qualifiedName(), strings.Join(setClauses, ", ")))
	if whereSQL != "" {
		sb.WriteString(" WHERE " + whereSQL)
	}
	return sb.String(), queryParams, nil
}

// DeleteSQL creates a DELETE statement with an optional filter. A filterless
// delete must be requested explicitly.
func (g *Generator) DeleteSQL(filters *query.QueryFilter, deleteAll bool) (string, []any, error) {
	if filters == nil && !deleteAll {
		return "", nil, fmt.Errorf("DELETE without a filter is not allowed; set deleteAll to clear the table")
	}

	var queryParams []any
	var whereSQL string
	if filters != nil {
		var err error
		whereSQL, err = g.buildWhereClause(filters, &queryParams)
		if err != nil {
			return "", nil, fmt.Errorf("error building WHERE clause for delete: %w", err)
		}
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM " + g.qualifiedName())
	if whereSQL != "" {
		sb.WriteString(" WHERE " + whereSQL)
	}
	return sb.String(), queryParams, nil
}
