// Package query defines the filter DSL used to describe table reads. A query
// is a set of conjunctive filter conditions plus optional ordering, projection
// and a row cap; the postgres package translates it into a single
// parameterized SELECT statement.
package query

// LogicalOperator combines filter conditions inside a group.
type LogicalOperator string

// Supported logical operators. The condition composer only ever emits AND;
// OR is available to callers building filters by hand.
const (
	LogicalOperatorAnd LogicalOperator = "and"
	LogicalOperatorOr  LogicalOperator = "or"
)

// ComparisonOperator defines the set of operators that can be used in a
// filter condition.
type ComparisonOperator string

// Supported comparison operators.
const (
	ComparisonOperatorEq      ComparisonOperator = "eq"
	ComparisonOperatorNeq     ComparisonOperator = "neq"
	ComparisonOperatorLt      ComparisonOperator = "lt"
	ComparisonOperatorLte     ComparisonOperator = "lte"
	ComparisonOperatorGt      ComparisonOperator = "gt"
	ComparisonOperatorGte     ComparisonOperator = "gte"
	ComparisonOperatorIn      ComparisonOperator = "in"
	ComparisonOperatorNin     ComparisonOperator = "nin"
	ComparisonOperatorIsNull  ComparisonOperator = "isnull"
	ComparisonOperatorNotNull ComparisonOperator = "notnull"
)

// FilterValue represents the value used in a filter condition. It can be of
// any type the driver can bind as a statement parameter.
type FilterValue any

// FilterCondition defines a single condition for filtering the results of a
// query.
type FilterCondition struct {
	Field    string             // The column to apply the filter on.
	Operator ComparisonOperator // The comparison operator to use.
	Value    FilterValue        // The value to compare against.
}

// FilterGroup combines multiple filter conditions using a logical operator.
type FilterGroup struct {
	Operator   LogicalOperator // The logical operator combining the conditions.
	Conditions []QueryFilter   // The list of conditions or nested groups.
}

// QueryFilter is a union type that can represent either a single filter
// condition or a group of conditions.
type QueryFilter struct {
	Condition *FilterCondition `json:",omitempty"`
	Group     *FilterGroup     `json:",omitempty"`
}

// SortDirection specifies the direction for sorting.
type SortDirection string

// Supported sort directions.
const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// SortConfiguration defines the sorting order for a specific column.
type SortConfiguration struct {
	Field     string        // The column to sort by.
	Direction SortDirection // The direction of the sort.
}

// QueryDSL is the top-level structure that represents a complete table read:
// projection, conjunctive filters, ordering and a row cap.
type QueryDSL struct {
	Projection []string            `json:",omitempty"` // Columns to select; empty means all, in table order.
	Filters    *QueryFilter        `json:",omitempty"`
	Sort       []SortConfiguration `json:",omitempty"`
	Limit      *int                `json:",omitempty"` // nil means no cap at the DSL level.
}

var supportedComparisonOperators = map[ComparisonOperator]struct{}{
	ComparisonOperatorEq:      {},
	ComparisonOperatorNeq:     {},
	ComparisonOperatorLt:      {},
	ComparisonOperatorLte:     {},
	ComparisonOperatorGt:      {},
	ComparisonOperatorGte:     {},
	ComparisonOperatorIn:      {},
	ComparisonOperatorNin:     {},
	ComparisonOperatorIsNull:  {},
	ComparisonOperatorNotNull: {},
}

// IsSupported checks if a comparison operator is one of the supported,
// built-in operators.
func (c ComparisonOperator) IsSupported() bool {
	_, ok := supportedComparisonOperators[c]
	return ok
}
