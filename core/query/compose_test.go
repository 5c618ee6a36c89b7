package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaidimu/go-pgtable/core/schema"
)

func testTable() *schema.Table {
	return &schema.Table{
		Schema: "public",
		Name:   "orders",
		Columns: []schema.Column{
			{Name: "id", DataType: "integer", Position: 1, IsPrimaryKey: true},
			{Name: "customer", DataType: "text", Position: 2},
			{Name: "status", DataType: "text", Nullable: true, Position: 3},
			{Name: "amount", DataType: "numeric(12,2)", Position: 4},
			{Name: "placed_at", DataType: "timestamptz", Position: 5},
		},
	}
}

// collectConditions flattens the composed filter into its conditions,
// asserting along the way that only AND grouping is used.
func collectConditions(t *testing.T, filter *QueryFilter) []FilterCondition {
	t.Helper()
	if filter == nil {
		return nil
	}
	if filter.Condition != nil {
		return []FilterCondition{*filter.Condition}
	}
	require.NotNil(t, filter.Group)
	assert.Equal(t, LogicalOperatorAnd, filter.Group.Operator)
	var conditions []FilterCondition
	for i := range filter.Group.Conditions {
		conditions = append(conditions, collectConditions(t, &filter.Group.Conditions[i])...)
	}
	return conditions
}

func TestCompose_NilOptions(t *testing.T) {
	dsl, err := Compose(testTable(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "customer", "status", "amount", "placed_at"}, dsl.Projection)
	assert.Nil(t, dsl.Filters)
	assert.Empty(t, dsl.Sort)
	assert.Nil(t, dsl.Limit)
}

func TestCompose_Projection(t *testing.T) {
	dsl, err := Compose(testTable(), &ReadOptions{Columns: []string{"id", "amount"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "amount"}, dsl.Projection)

	_, err = Compose(testTable(), &ReadOptions{Columns: []string{"id", "missing"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestCompose_Between(t *testing.T) {
	tests := []struct {
		name     string
		between  *BetweenRange
		expected []FilterCondition
		wantErr  bool
	}{
		{
			name:    "both bounds",
			between: &BetweenRange{Column: "amount", Start: 10, End: 20},
			expected: []FilterCondition{
				{Field: "amount", Operator: ComparisonOperatorGte, Value: 10},
				{Field: "amount", Operator: ComparisonOperatorLte, Value: 20},
			},
		},
		{
			name:    "start only",
			between: &BetweenRange{Column: "amount", Start: 10},
			expected: []FilterCondition{
				{Field: "amount", Operator: ComparisonOperatorGte, Value: 10},
			},
		},
		{
			name:    "end only",
			between: &BetweenRange{Column: "amount", End: 20},
			expected: []FilterCondition{
				{Field: "amount", Operator: ComparisonOperatorLte, Value: 20},
			},
		},
		{
			name:     "both bounds nil is ignored",
			between:  &BetweenRange{Column: "amount"},
			expected: nil,
		},
		{
			name:    "unknown column fails",
			between: &BetweenRange{Column: "missing", Start: 1},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsl, err := Compose(testTable(), &ReadOptions{Between: tt.between})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, collectConditions(t, dsl.Filters))
		})
	}
}

func TestCompose_CursorDroppedOnUnknownColumn(t *testing.T) {
	dsl, err := Compose(testTable(), &ReadOptions{
		After: &CursorFilter{Column: "renamed_away", Value: 42},
	})
	require.NoError(t, err)
	assert.Nil(t, dsl.Filters)
}

func TestCompose_Cursor(t *testing.T) {
	dsl, err := Compose(testTable(), &ReadOptions{
		After: &CursorFilter{Column: "id", Value: 42},
	})
	require.NoError(t, err)
	assert.Equal(t, []FilterCondition{
		{Field: "id", Operator: ComparisonOperatorGt, Value: 42},
	}, collectConditions(t, dsl.Filters))
}

func TestCompose_NullDirectives(t *testing.T) {
	dsl, err := Compose(testTable(), &ReadOptions{
		NullColumns:    []string{"status"},
		NonNullColumns: []string{"customer"},
	})
	require.NoError(t, err)
	assert.Equal(t, []FilterCondition{
		{Field: "status", Operator: ComparisonOperatorIsNull},
		{Field: "customer", Operator: ComparisonOperatorNotNull},
	}, collectConditions(t, dsl.Filters))

	// Null directives validate against the table, not the projection.
	dsl, err = Compose(testTable(), &ReadOptions{
		Columns:     []string{"id"},
		NullColumns: []string{"status"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, dsl.Projection)
	assert.Len(t, collectConditions(t, dsl.Filters), 1)

	_, err = Compose(testTable(), &ReadOptions{NullColumns: []string{"missing"}})
	require.Error(t, err)
	_, err = Compose(testTable(), &ReadOptions{NonNullColumns: []string{"missing"}})
	require.Error(t, err)
}

func TestCompose_Equals(t *testing.T) {
	dsl, err := Compose(testTable(), &ReadOptions{
		Equals: &EqualsFilter{Column: "customer", Value: "acme"},
	})
	require.NoError(t, err)
	assert.Equal(t, []FilterCondition{
		{Field: "customer", Operator: ComparisonOperatorEq, Value: "acme"},
	}, collectConditions(t, dsl.Filters))

	_, err = Compose(testTable(), &ReadOptions{
		Equals: &EqualsFilter{Column: "missing", Value: 1},
	})
	require.Error(t, err)
}

func TestCompose_EqualsMapEveryEntryContributes(t *testing.T) {
	dsl, err := Compose(testTable(), &ReadOptions{
		EqualsMap: map[string]any{
			"status":   "open",
			"customer": "acme",
			"amount":   100,
		},
	})
	require.NoError(t, err)
	// One condition per entry, in sorted key order.
	assert.Equal(t, []FilterCondition{
		{Field: "amount", Operator: ComparisonOperatorEq, Value: 100},
		{Field: "customer", Operator: ComparisonOperatorEq, Value: "acme"},
		{Field: "status", Operator: ComparisonOperatorEq, Value: "open"},
	}, collectConditions(t, dsl.Filters))

	_, err = Compose(testTable(), &ReadOptions{
		EqualsMap: map[string]any{"missing": 1},
	})
	require.Error(t, err)
}

func TestCompose_Membership(t *testing.T) {
	dsl, err := Compose(testTable(), &ReadOptions{
		In: &MembershipFilter{Column: "status", Values: []FilterValue{"open", "shipped"}},
	})
	require.NoError(t, err)
	conditions := collectConditions(t, dsl.Filters)
	require.Len(t, conditions, 1)
	assert.Equal(t, "status", conditions[0].Field)
	assert.Equal(t, ComparisonOperatorIn, conditions[0].Operator)
	assert.Equal(t, []FilterValue{"open", "shipped"}, conditions[0].Value)

	_, err = Compose(testTable(), &ReadOptions{
		In: &MembershipFilter{Column: "missing", Values: []FilterValue{1}},
	})
	require.Error(t, err)
}

func TestCompose_SingleConditionIsBare(t *testing.T) {
	dsl, err := Compose(testTable(), &ReadOptions{
		Equals: &EqualsFilter{Column: "id", Value: 1},
	})
	require.NoError(t, err)
	require.NotNil(t, dsl.Filters)
	assert.NotNil(t, dsl.Filters.Condition)
	assert.Nil(t, dsl.Filters.Group)
}

func TestCompose_AllDirectivesCombineWithAnd(t *testing.T) {
	dsl, err := Compose(testTable(), &ReadOptions{
		Between:        &BetweenRange{Column: "amount", Start: 10, End: 20},
		After:          &CursorFilter{Column: "id", Value: 5},
		NullColumns:    []string{"status"},
		NonNullColumns: []string{"customer"},
		Equals:         &EqualsFilter{Column: "customer", Value: "acme"},
		EqualsMap:      map[string]any{"status": nil},
		In:             &MembershipFilter{Column: "id", Values: []FilterValue{1, 2, 3}},
	})
	require.NoError(t, err)
	require.NotNil(t, dsl.Filters)
	require.NotNil(t, dsl.Filters.Group)
	assert.Equal(t, LogicalOperatorAnd, dsl.Filters.Group.Operator)
	assert.Len(t, collectConditions(t, dsl.Filters), 8)
}

func TestCompose_Ordering(t *testing.T) {
	dsl, err := Compose(testTable(), &ReadOptions{OrderBy: "placed_at"})
	require.NoError(t, err)
	assert.Equal(t, []SortConfiguration{{Field: "placed_at", Direction: SortDirectionAsc}}, dsl.Sort)

	dsl, err = Compose(testTable(), &ReadOptions{OrderBy: "placed_at", Descending: true})
	require.NoError(t, err)
	assert.Equal(t, []SortConfiguration{{Field: "placed_at", Direction: SortDirectionDesc}}, dsl.Sort)

	_, err = Compose(testTable(), &ReadOptions{OrderBy: "missing"})
	require.Error(t, err)
}

func TestCompose_Limit(t *testing.T) {
	limit := 50
	dsl, err := Compose(testTable(), &ReadOptions{Limit: &limit})
	require.NoError(t, err)
	require.NotNil(t, dsl.Limit)
	assert.Equal(t, 50, *dsl.Limit)

	// A non-positive limit disables the cap.
	zero := 0
	dsl, err = Compose(testTable(), &ReadOptions{Limit: &zero})
	require.NoError(t, err)
	assert.Nil(t, dsl.Limit)

	negative := -1
	dsl, err = Compose(testTable(), &ReadOptions{Limit: &negative})
	require.NoError(t, err)
	assert.Nil(t, dsl.Limit)
}
