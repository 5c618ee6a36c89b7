package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTable() *Table {
	return &Table{
		Schema: "public",
		Name:   "users",
		Columns: []Column{
			{Name: "tenant_id", DataType: "integer", Position: 1, IsPrimaryKey: true},
			{Name: "id", DataType: "integer", Position: 2, IsPrimaryKey: true},
			{Name: "email", DataType: "text", Nullable: true, Position: 3},
		},
	}
}

func TestTable_ColumnNames(t *testing.T) {
	assert.Equal(t, []string{"tenant_id", "id", "email"}, sampleTable().ColumnNames())
	assert.Empty(t, (&Table{Name: "empty"}).ColumnNames())
}

func TestTable_HasColumn(t *testing.T) {
	table := sampleTable()
	assert.True(t, table.HasColumn("email"))
	assert.False(t, table.HasColumn("missing"))
	assert.False(t, table.HasColumn("EMAIL"))
}

func TestTable_Column(t *testing.T) {
	table := sampleTable()

	col, ok := table.Column("email")
	assert.True(t, ok)
	assert.Equal(t, "text", col.DataType)
	assert.True(t, col.Nullable)

	_, ok = table.Column("missing")
	assert.False(t, ok)
}

func TestTable_PrimaryKey(t *testing.T) {
	assert.Equal(t, []string{"tenant_id", "id"}, sampleTable().PrimaryKey())
	assert.Nil(t, (&Table{Name: "keyless", Columns: []Column{{Name: "a"}}}).PrimaryKey())
}
