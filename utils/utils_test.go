package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaidimu/go-pgtable/core/schema"
)

type address struct {
	City string `json:"city"`
}

type customer struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
	Address address `json:"address"`
}

func TestStructToRow(t *testing.T) {
	row, err := StructToRow(customer{
		ID:      "c-1",
		Name:    "acme",
		Balance: 12.5,
		Address: address{City: "Nairobi"},
	})
	require.NoError(t, err)

	assert.Equal(t, "c-1", row["id"])
	assert.Equal(t, "acme", row["name"])
	assert.Equal(t, 12.5, row["balance"])
	assert.Equal(t, json.RawMessage(`{"city":"Nairobi"}`), row["address"])
}

func TestStructToRow_Pointer(t *testing.T) {
	row, err := StructToRow(&customer{ID: "c-2", Name: "globex"})
	require.NoError(t, err)
	assert.Equal(t, "c-2", row["id"])

	var nilCustomer *customer
	_, err = StructToRow(nilCustomer)
	assert.Error(t, err)
}

func TestStructToRow_NonStruct(t *testing.T) {
	_, err := StructToRow("not a struct")
	assert.Error(t, err)

	_, err = StructToRow(42)
	assert.Error(t, err)
}

func TestRowToStruct(t *testing.T) {
	row := schema.Row{
		"id":      "c-1",
		"name":    "acme",
		"balance": 12.5,
		"address": json.RawMessage(`{"city":"Nairobi"}`),
	}
	got, err := RowToStruct[customer](row)
	require.NoError(t, err)
	assert.Equal(t, customer{
		ID:      "c-1",
		Name:    "acme",
		Balance: 12.5,
		Address: address{City: "Nairobi"},
	}, got)
}

func TestRowToStruct_Errors(t *testing.T) {
	_, err := RowToStruct[customer](nil)
	assert.Error(t, err)

	_, err = RowToStruct[int](schema.Row{"x": 1})
	assert.Error(t, err)
}

func TestRowToStructRoundTrip(t *testing.T) {
	original := customer{ID: "c-9", Name: "initech", Balance: 0.01, Address: address{City: "Mombasa"}}
	row, err := StructToRow(original)
	require.NoError(t, err)
	back, err := RowToStruct[customer](row)
	require.NoError(t, err)
	assert.Equal(t, original, back)
}
