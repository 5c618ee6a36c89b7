package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQueryBuilder(t *testing.T) {
	qb := NewQueryBuilder()
	assert.NotNil(t, qb)
	assert.Nil(t, qb.query.Filters)
	assert.Empty(t, qb.query.Sort)
	assert.Nil(t, qb.query.Limit)
	assert.Nil(t, qb.query.Projection)
}

func TestQueryBuilder_Build(t *testing.T) {
	qb := NewQueryBuilder()
	dsl := qb.Build()
	assert.Equal(t, QueryDSL{}, dsl)

	qb.Limit(10)
	dsl = qb.Build()
	assert.NotNil(t, dsl.Limit)
	assert.Equal(t, 10, *dsl.Limit)
}

func TestQueryBuilder_Clone(t *testing.T) {
	qb := NewQueryBuilder().Limit(10).OrderByAsc("name")
	clonedQb := qb.Clone()

	assert.NotNil(t, clonedQb)
	assert.Equal(t, qb.query, clonedQb.query)

	// Modify clonedQb and ensure original qb is not affected
	clonedQb.Limit(20)
	assert.Equal(t, 10, *qb.query.Limit)
	assert.Equal(t, 20, *clonedQb.query.Limit)
}

func TestQueryBuilder_Reset(t *testing.T) {
	qb := NewQueryBuilder().Limit(10).OrderByAsc("name")
	assert.NotNil(t, qb.query.Limit)
	assert.NotEmpty(t, qb.query.Sort)

	qb.Reset()
	assert.Nil(t, qb.query.Filters)
	assert.Empty(t, qb.query.Sort)
	assert.Nil(t, qb.query.Limit)
	assert.Nil(t, qb.query.Projection)
}

func TestQueryBuilder_Where(t *testing.T) {
	tests := []struct {
		name     string
		buildFn  func(*QueryBuilder) *QueryBuilder
		expected QueryFilter
	}{
		{
			name: "Eq condition",
			buildFn: func(qb *QueryBuilder) *QueryBuilder {
				return qb.Where("field1").Eq("value1")
			},
			expected: QueryFilter{
				Condition: &FilterCondition{
					Field:    "field1",
					Operator: ComparisonOperatorEq,
					Value:    "value1",
				},
			},
		},
		{
			name: "Neq condition",
			buildFn: func(qb *QueryBuilder) *QueryBuilder {
				return qb.Where("field2").Neq(123)
			},
			expected: QueryFilter{
				Condition: &FilterCondition{
					Field:    "field2",
					Operator: ComparisonOperatorNeq,
					Value:    123,
				},
			},
		},
		{
			name: "Lt condition",
			buildFn: func(qb *QueryBuilder) *QueryBuilder {
				return qb.Where("age").Lt(30)
			},
			expected: QueryFilter{
				Condition: &FilterCondition{
					Field:    "age",
					Operator: ComparisonOperatorLt,
					Value:    30,
				},
			},
		},
		{
			name: "In condition",
			buildFn: func(qb *QueryBuilder) *QueryBuilder {
				return qb.Where("status").In("active", "pending")
			},
			expected: QueryFilter{
				Condition: &FilterCondition{
					Field:    "status",
					Operator: ComparisonOperatorIn,
					Value:    []FilterValue{"active", "pending"},
				},
			},
		},
		{
			name: "IsNull condition",
			buildFn: func(qb *QueryBuilder) *QueryBuilder {
				return qb.Where("deleted_at").IsNull()
			},
			expected: QueryFilter{
				Condition: &FilterCondition{
					Field:    "deleted_at",
					Operator: ComparisonOperatorIsNull,
					Value:    nil,
				},
			},
		},
		{
			name: "NotNull condition",
			buildFn: func(qb *QueryBuilder) *QueryBuilder {
				return qb.Where("email").NotNull()
			},
			expected: QueryFilter{
				Condition: &FilterCondition{
					Field:    "email",
					Operator: ComparisonOperatorNotNull,
					Value:    nil,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb := NewQueryBuilder()
			qb = tt.buildFn(qb)
			dsl := qb.Build()
			assert.NotNil(t, dsl.Filters)
			assert.Equal(t, tt.expected, *dsl.Filters)
		})
	}
}

func TestQueryBuilder_WhereGroup(t *testing.T) {
	qb := NewQueryBuilder().
		WhereGroup(LogicalOperatorOr).
		Where("status").Eq("open").
		Where("status").Eq("pending").
		End()

	dsl := qb.Build()
	assert.NotNil(t, dsl.Filters)
	assert.NotNil(t, dsl.Filters.Group)
	assert.Equal(t, LogicalOperatorOr, dsl.Filters.Group.Operator)
	assert.Len(t, dsl.Filters.Group.Conditions, 2)
	assert.Equal(t, "open", dsl.Filters.Group.Conditions[0].Condition.Value)
	assert.Equal(t, "pending", dsl.Filters.Group.Conditions[1].Condition.Value)
}

func TestQueryBuilder_OrderBy(t *testing.T) {
	qb := NewQueryBuilder().OrderByAsc("name").OrderByDesc("created_at")
	dsl := qb.Build()

	assert.Len(t, dsl.Sort, 2)
	assert.Equal(t, SortConfiguration{Field: "name", Direction: SortDirectionAsc}, dsl.Sort[0])
	assert.Equal(t, SortConfiguration{Field: "created_at", Direction: SortDirectionDesc}, dsl.Sort[1])
}

func TestQueryBuilder_Select(t *testing.T) {
	qb := NewQueryBuilder().Select("id", "name").Select("email")
	dsl := qb.Build()
	assert.Equal(t, []string{"id", "name", "email"}, dsl.Projection)
}

func TestComparisonOperator_IsSupported(t *testing.T) {
	assert.True(t, ComparisonOperatorEq.IsSupported())
	assert.True(t, ComparisonOperatorNotNull.IsSupported())
	assert.False(t, ComparisonOperator("like").IsSupported())
	assert.False(t, ComparisonOperator("").IsSupported())
}
