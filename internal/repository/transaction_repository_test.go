package repository

import (
	"testing"
	"time"

	"financer/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupPredicate(t *testing.T) {
	day := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	sql, args, err := dedupPredicate(models.DedupKey{
		UserID:      7,
		Date:        day,
		PaidOut:     decimal.NewNullDecimal(decimal.RequireFromString("12.345")),
		Description: "Coffee",
	}).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "(t.user_id = ? AND t.date = ? AND t.description = ? AND t.paid_out = ? AND t.paid_in IS NULL)", sql)
	assert.Equal(t, []interface{}{int64(7), day, "Coffee", "12.35"}, args)
}

func TestDedupPredicate_PresentZeroIsNotNull(t *testing.T) {
	sql, args, err := dedupPredicate(models.DedupKey{
		UserID:  1,
		Date:    time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		PaidOut: decimal.NewNullDecimal(decimal.Zero),
		PaidIn:  decimal.NewNullDecimal(decimal.RequireFromString("20")),
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "t.paid_out = ?")
	assert.Contains(t, sql, "t.paid_in = ?")
	assert.NotContains(t, sql, "IS NULL")
	assert.Equal(t, []interface{}{"0", "20"}, args[3:])
}
