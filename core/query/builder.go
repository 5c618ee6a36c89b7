package query

// QueryBuilder provides a fluent API for building QueryDSL structures by hand.
// Most reads go through the directive-based composer instead; the builder is
// the escape hatch for callers that need filter shapes the directives do not
// cover (such as OR groups).
type QueryBuilder struct {
	query QueryDSL
}

// NewQueryBuilder creates a new, empty query builder instance.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		query: QueryDSL{},
	}
}

// Build returns the constructed QueryDSL object.
func (qb *QueryBuilder) Build() QueryDSL {
	return qb.query
}

// Clone creates a copy of the current query builder, allowing new queries to
// be derived from an existing one without modifying the original.
func (qb *QueryBuilder) Clone() *QueryBuilder {
	newBuilder := &QueryBuilder{}
	newBuilder.query = qb.query
	return newBuilder
}

// Reset clears all configurations from the query builder, returning it to its
// initial state.
func (qb *QueryBuilder) Reset() *QueryBuilder {
	qb.query = QueryDSL{}
	return qb
}

// Where begins the construction of a filter condition for a specific column.
// The resulting condition becomes the query's filter; use WhereGroup to
// combine several conditions.
func (qb *QueryBuilder) Where(field string) *FilterConditionBuilder {
	return &FilterConditionBuilder{
		parent: qb,
		field:  field,
	}
}

// WhereGroup begins the construction of a group of filter conditions,
// combined with a logical operator.
func (qb *QueryBuilder) WhereGroup(operator LogicalOperator) *FilterGroupBuilder {
	return &FilterGroupBuilder{
		parent:     qb,
		operator:   operator,
		conditions: []QueryFilter{},
	}
}

// FilterConditionBuilder is used to build a single filter condition.
type FilterConditionBuilder struct {
	parent *QueryBuilder
	field  string
}

// Eq adds an equality condition to the query.
func (fcb *FilterConditionBuilder) Eq(value FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorEq, value)
}

// Neq adds a not-equal condition to the query.
func (fcb *FilterConditionBuilder) Neq(value FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorNeq, value)
}

// Lt adds a less-than condition to the query.
func (fcb *FilterConditionBuilder) Lt(value FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorLt, value)
}

// Lte adds a less-than-or-equal condition to the query.
func (fcb *FilterConditionBuilder) Lte(value FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorLte, value)
}

// Gt adds a greater-than condition to the query.
func (fcb *FilterConditionBuilder) Gt(value FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorGt, value)
}

// Gte adds a greater-than-or-equal condition to the query.
func (fcb *FilterConditionBuilder) Gte(value FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorGte, value)
}

// In adds a membership condition, checking if a column's value is within a
// set of values.
func (fcb *FilterConditionBuilder) In(values ...FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorIn, values)
}

// Nin adds a negated membership condition.
func (fcb *FilterConditionBuilder) Nin(values ...FilterValue) *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorNin, values)
}

// IsNull adds a null-check condition.
func (fcb *FilterConditionBuilder) IsNull() *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorIsNull, nil)
}

// NotNull adds a non-null-check condition.
func (fcb *FilterConditionBuilder) NotNull() *QueryBuilder {
	return fcb.addCondition(ComparisonOperatorNotNull, nil)
}

// addCondition is an internal helper to add a filter condition to the query.
func (fcb *FilterConditionBuilder) addCondition(operator ComparisonOperator, value FilterValue) *QueryBuilder {
	condition := &FilterCondition{
		Field:    fcb.field,
		Operator: operator,
		Value:    value,
	}

	filter := QueryFilter{Condition: condition}
	fcb.parent.query.Filters = &filter
	return fcb.parent
}

// FilterGroupBuilder is used to build a group of filter conditions.
type FilterGroupBuilder struct {
	parent     *QueryBuilder
	operator   LogicalOperator
	conditions []QueryFilter
}

// Where adds a new condition to the current filter group.
func (fgb *FilterGroupBuilder) Where(field string) *FilterConditionBuilderInGroup {
	return &FilterConditionBuilderInGroup{
		groupBuilder: fgb,
		field:        field,
	}
}

// End finalizes the current filter group and returns to the main query builder.
func (fgb *FilterGroupBuilder) End() *QueryBuilder {
	group := &FilterGroup{
		Operator:   fgb.operator,
		Conditions: fgb.conditions,
	}

	filter := QueryFilter{Group: group}
	fgb.parent.query.Filters = &filter
	return fgb.parent
}

// FilterConditionBuilderInGroup is used to build a filter condition within a
// group.
type FilterConditionBuilderInGroup struct {
	groupBuilder *FilterGroupBuilder
	field        string
}

// Eq adds an equality condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Eq(value FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorEq, value)
}

// Neq adds a not-equal condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Neq(value FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorNeq, value)
}

// Lt adds a less-than condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Lt(value FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorLt, value)
}

// Lte adds a less-than-or-equal condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Lte(value FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorLte, value)
}

// Gt adds a greater-than condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Gt(value FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorGt, value)
}

// Gte adds a greater-than-or-equal condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Gte(value FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorGte, value)
}

// In adds a membership condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) In(values ...FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorIn, values)
}

// Nin adds a negated membership condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) Nin(values ...FilterValue) *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorNin, values)
}

// IsNull adds a null-check condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) IsNull() *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorIsNull, nil)
}

// NotNull adds a non-null-check condition to the current filter group.
func (fcbg *FilterConditionBuilderInGroup) NotNull() *FilterGroupBuilder {
	return fcbg.addConditionToGroup(ComparisonOperatorNotNull, nil)
}

// addConditionToGroup is an internal helper to add a condition to a filter group.
func (fcbg *FilterConditionBuilderInGroup) addConditionToGroup(operator ComparisonOperator, value FilterValue) *FilterGroupBuilder {
	condition := &FilterCondition{
		Field:    fcbg.field,
		Operator: operator,
		Value:    value,
	}

	filter := QueryFilter{Condition: condition}
	fcbg.groupBuilder.conditions = append(fcbg.groupBuilder.conditions, filter)
	return fcbg.groupBuilder
}

// OrderBy adds a sorting configuration to the query.
func (qb *QueryBuilder) OrderBy(field string, direction SortDirection) *QueryBuilder {
	sort := SortConfiguration{
		Field:     field,
		Direction: direction,
	}
	qb.query.Sort = append(qb.query.Sort, sort)
	return qb
}

// OrderByAsc adds an ascending sort order for a specific column.
func (qb *QueryBuilder) OrderByAsc(field string) *QueryBuilder {
	return qb.OrderBy(field, SortDirectionAsc)
}

// OrderByDesc adds a descending sort order for a specific column.
func (qb *QueryBuilder) OrderByDesc(field string) *QueryBuilder {
	return qb.OrderBy(field, SortDirectionDesc)
}

// Limit caps the number of records returned by the query.
func (qb *QueryBuilder) Limit(limit int) *QueryBuilder {
	qb.query.Limit = &limit
	return qb
}

// Select specifies which columns should be returned in the result set.
func (qb *QueryBuilder) Select(fields ...string) *QueryBuilder {
	qb.query.Projection = append(qb.query.Projection, fields...)
	return qb
}
