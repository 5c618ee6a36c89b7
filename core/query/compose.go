package query

import (
	"fmt"
	"sort"

	"github.com/asaidimu/go-pgtable/core/schema"
)

// BetweenRange filters a column to an inclusive range. A nil bound relaxes
// that side: only Start means ">= Start", only End means "<= End". With both
// bounds nil the directive is ignored.
type BetweenRange struct {
	Column string
	Start  FilterValue
	End    FilterValue
}

// CursorFilter filters a column to values strictly greater than Value. It is
// the paging directive: reads resume after the last value already seen.
type CursorFilter struct {
	Column string
	Value  FilterValue
}

// EqualsFilter filters a column to a single value.
type EqualsFilter struct {
	Column string
	Value  FilterValue
}

// MembershipFilter filters a column to a set of values.
type MembershipFilter struct {
	Column string
	Values []FilterValue
}

// ReadOptions is the transient directive set a caller supplies to a table
// read. Every directive is optional; supplied directives are combined with
// logical AND only.
type ReadOptions struct {
	// Columns is the projection list. Nil selects all columns of the table
	// in table order.
	Columns []string

	// Between constrains one column to an inclusive range.
	Between *BetweenRange

	// After constrains one column to values strictly greater than a cursor.
	// Unlike every other directive, a cursor naming a column the table does
	// not have is dropped rather than failing the read: paging state often
	// outlives a column rename, and a stale cursor must not make the table
	// unreadable.
	After *CursorFilter

	// NullColumns lists columns that must be NULL.
	NullColumns []string

	// NonNullColumns lists columns that must be NOT NULL.
	NonNullColumns []string

	// Equals constrains a single column to a value.
	Equals *EqualsFilter

	// EqualsMap constrains several columns at once; each entry contributes
	// its own equality condition.
	EqualsMap map[string]any

	// In constrains a column to a set of values.
	In *MembershipFilter

	// OrderBy names a single sort column. Ascending unless Descending is set.
	OrderBy    string
	Descending bool

	// Limit caps returned rows. Nil applies the reader's default cap; an
	// explicit non-positive limit disables the cap.
	Limit *int
}

// columnError reports a directive referencing a column the table does not
// define. The engine would reject the generated SQL anyway; failing here
// keeps the error readable.
func columnError(table *schema.Table, directive, column string) error {
	return fmt.Errorf("%s directive references column %q which does not exist in table %q", directive, column, table.Name)
}

// Compose translates a directive set into a QueryDSL against the reflected
// table: all supplied directives' predicates are collected into a single
// conjunctive filter, then ordering and the row cap are applied. A cursor
// (After) directive referencing an unknown column is silently dropped; any
// other unknown column fails the composition.
func Compose(table *schema.Table, opts *ReadOptions) (*QueryDSL, error) {
	if opts == nil {
		opts = &ReadOptions{}
	}

	dsl := &QueryDSL{}

	if opts.Columns != nil {
		for _, col := range opts.Columns {
			if !table.HasColumn(col) {
				return nil, columnError(table, "projection", col)
			}
		}
		dsl.Projection = opts.Columns
	} else {
		dsl.Projection = table.ColumnNames()
	}

	var conditions []QueryFilter

	addCondition := func(field string, op ComparisonOperator, value FilterValue) {
		conditions = append(conditions, QueryFilter{Condition: &FilterCondition{
			Field:    field,
			Operator: op,
			Value:    value,
		}})
	}

	if b := opts.Between; b != nil && (b.Start != nil || b.End != nil) {
		if !table.HasColumn(b.Column) {
			return nil, columnError(table, "between", b.Column)
		}
		if b.Start != nil {
			addCondition(b.Column, ComparisonOperatorGte, b.Start)
		}
		if b.End != nil {
			addCondition(b.Column, ComparisonOperatorLte, b.End)
		}
	}

	if a := opts.After; a != nil && table.HasColumn(a.Column) {
		addCondition(a.Column, ComparisonOperatorGt, a.Value)
	}

	for _, col := range opts.NullColumns {
		if !table.HasColumn(col) {
			return nil, columnError(table, "null-columns", col)
		}
		addCondition(col, ComparisonOperatorIsNull, nil)
	}

	for _, col := range opts.NonNullColumns {
		if !table.HasColumn(col) {
			return nil, columnError(table, "non-null-columns", col)
		}
		addCondition(col, ComparisonOperatorNotNull, nil)
	}

	if e := opts.Equals; e != nil {
		if !table.HasColumn(e.Column) {
			return nil, columnError(table, "equals", e.Column)
		}
		addCondition(e.Column, ComparisonOperatorEq, e.Value)
	}

	if len(opts.EqualsMap) > 0 {
		// Sorted for a deterministic clause order.
		keys := make([]string, 0, len(opts.EqualsMap))
		for k := range opts.EqualsMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, col := range keys {
			if !table.HasColumn(col) {
				return nil, columnError(table, "equals-map", col)
			}
			addCondition(col, ComparisonOperatorEq, opts.EqualsMap[col])
		}
	}

	if m := opts.In; m != nil {
		if !table.HasColumn(m.Column) {
			return nil, columnError(table, "membership", m.Column)
		}
		addCondition(m.Column, ComparisonOperatorIn, m.Values)
	}

	switch len(conditions) {
	case 0:
	case 1:
		dsl.Filters = &conditions[0]
	default:
		dsl.Filters = &QueryFilter{Group: &FilterGroup{
			Operator:   LogicalOperatorAnd,
			Conditions: conditions,
		}}
	}

	if opts.OrderBy != "" {
		if !table.HasColumn(opts.OrderBy) {
			return nil, columnError(table, "order-by", opts.OrderBy)
		}
		direction := SortDirectionAsc
		if opts.Descending {
			direction = SortDirectionDesc
		}
		dsl.Sort = []SortConfiguration{{Field: opts.OrderBy, Direction: direction}}
	}

	if opts.Limit != nil && *opts.Limit > 0 {
		dsl.Limit = opts.Limit
	}

	return dsl, nil
}
