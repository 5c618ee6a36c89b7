package postgres

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeValue_Numeric(t *testing.T) {
	value := normalizeValue(pgtype.Numeric{Int: big.NewInt(1234), Exp: -2, Valid: true})
	d, ok := value.(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("12.34")))

	// NULL and NaN both come back as nil; a NaN rendered as zero would be
	// a silent value change.
	assert.Nil(t, normalizeValue(pgtype.Numeric{Valid: false}))
	assert.Nil(t, normalizeValue(pgtype.Numeric{NaN: true, Valid: true}))
}

func TestNormalizeValue_UUID(t *testing.T) {
	id := uuid.MustParse("0194e0d1-47fc-7f03-8ca9-b0216ed4e702")
	assert.Equal(t, "0194e0d1-47fc-7f03-8ca9-b0216ed4e702", normalizeValue([16]byte(id)))
}

func TestNormalizeValue_Passthrough(t *testing.T) {
	assert.Equal(t, "text", normalizeValue("text"))
	assert.Equal(t, int64(7), normalizeValue(int64(7)))
	assert.Nil(t, normalizeValue(nil))
}
