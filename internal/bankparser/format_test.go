package bankparser

import (
	"context"
	"testing"
	"time"

	"financer/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tbcStatement = "თარიღი,აღწერა,დამატებითი ინფორმაცია,გასული თანხა,შემოსული თანხა,ნაშთი,ტრანზაქციის ID\n" +
	"Date,Description,Additional Information,Paid Out,Paid In,Balance,Transaction ID\n" +
	"15/01/2024,Coffee კაფე,MCC:5814,12.50,,987.50,TX-1\n" +
	"16/01/2024,Salary,,,\"2,000.00\",\"2,987.50\",TX-2\n" +
	"not a date,Broken row,,5.00,,0,TX-3\n"

const bogStatement = "თარიღი,დანიშნულება,,GEL,USD,EUR,GBP\n" +
	"15/01/2024,გადახდა ტაქსი,,-12.50,,,\n" +
	"16/01/2024,Refund,,,20.00,,\n" +
	"17/01/2024,Internal move,,,,,\n" +
	"??,Broken,,-1,,,\n"

func TestDetectors_MutuallyExclusive(t *testing.T) {
	tbc, bog := TBC(), BOG()

	assert.True(t, tbc.CanParse(tbcStatement))
	assert.False(t, bog.CanParse(tbcStatement))

	assert.True(t, bog.CanParse(bogStatement))
	assert.False(t, tbc.CanParse(bogStatement))
}

func TestDetectors_TolerateBOMAndCRLF(t *testing.T) {
	assert.True(t, TBC().CanParse(byteOrderMark+"Foo\r\nDate,Description,Paid Out,Paid In\r\n"))
	assert.True(t, BOG().CanParse(byteOrderMark+"  თარიღი,დანიშნულება,,GEL\r\n01/01/2024,x,,1\r\n"))
}

func TestTBC_Parse(t *testing.T) {
	result, err := TBC().Parse(context.Background(), tbcStatement)
	require.NoError(t, err)

	assert.Equal(t, BankTBC, result.Bank)
	assert.Equal(t, 1, result.Dropped)
	require.Len(t, result.Transactions, 2)

	coffee := result.Transactions[0]
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), coffee.Date)
	assert.Equal(t, "Coffee კაფე", coffee.Description)
	assert.Equal(t, models.TransactionTypeExpense, coffee.Type)
	assert.True(t, decimal.RequireFromString("12.50").Equal(coffee.PaidOut.Decimal))
	assert.False(t, coffee.PaidIn.Valid, "blank Paid In cell is absent, not zero")
	assert.True(t, decimal.RequireFromString("987.50").Equal(coffee.Balance))
	assert.Equal(t, "Coffee", coffee.DetectedCategory)
	assert.Equal(t, "TX-1", coffee.TransactionID)

	salary := result.Transactions[1]
	assert.Equal(t, models.TransactionTypeIncome, salary.Type)
	assert.True(t, decimal.RequireFromString("2000").Equal(salary.PaidIn.Decimal))
	assert.False(t, salary.PaidOut.Valid)
	assert.Equal(t, "", salary.DetectedCategory)
}

func TestTBC_ParseAmountsAtStoredScale(t *testing.T) {
	content := "Date,Description,Paid Out,Paid In,Balance\n" +
		"15/01/2024,Coffee,12.345,0,987.655\n"

	result, err := TBC().Parse(context.Background(), content)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)

	tx := result.Transactions[0]
	assert.True(t, decimal.RequireFromString("12.35").Equal(tx.PaidOut.Decimal))
	require.True(t, tx.PaidIn.Valid, "an explicit zero is present")
	assert.True(t, tx.PaidIn.Decimal.IsZero())
	assert.True(t, decimal.RequireFromString("987.66").Equal(tx.Balance))
	assert.Equal(t, models.TransactionTypeExpense, tx.Type)
}

func TestTBC_ParseReferenceColumns(t *testing.T) {
	content := "Date,Description,Paid Out,Paid In,Balance,Document Date,Document Number,Partner's Name,Op. Code,Transaction ID\r\n" +
		"01/02/2024,Rent,500,,100,31/01/2024,DOC-9,Landlord LLC,OP1,T9\r\n"

	result, err := TBC().Parse(context.Background(), byteOrderMark+content)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)

	tx := result.Transactions[0]
	require.NotNil(t, tx.DocumentDate)
	assert.Equal(t, 31, tx.DocumentDate.Day())
	assert.Equal(t, "DOC-9", tx.DocumentNumber)
	assert.Equal(t, "Landlord LLC", tx.PartnersName)
	assert.Equal(t, "OP1", tx.OpCode)
	assert.Equal(t, "", tx.TaxpayerName)
}

func TestBOG_Parse(t *testing.T) {
	result, err := BOG().Parse(context.Background(), byteOrderMark+bogStatement)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Dropped)
	require.Len(t, result.Transactions, 3)

	taxi := result.Transactions[0]
	assert.Equal(t, models.TransactionTypeExpense, taxi.Type)
	assert.True(t, decimal.RequireFromString("12.50").Equal(taxi.PaidOut.Decimal))
	assert.False(t, taxi.PaidIn.Valid)
	assert.True(t, taxi.Balance.IsZero())
	assert.Equal(t, "Transportation", taxi.DetectedCategory)

	refund := result.Transactions[1]
	assert.Equal(t, models.TransactionTypeIncome, refund.Type)
	assert.True(t, decimal.RequireFromString("20").Equal(refund.PaidIn.Decimal))
	assert.False(t, refund.PaidOut.Valid)

	move := result.Transactions[2]
	assert.Equal(t, models.TransactionTypeTransfer, move.Type)
	assert.False(t, move.PaidOut.Valid)
	assert.False(t, move.PaidIn.Valid)
}

func TestKindInvariant(t *testing.T) {
	for _, f := range []*Format{TBC(), BOG()} {
		content := tbcStatement
		if f.Code == BankBOG {
			content = bogStatement
		}
		result, err := f.Parse(context.Background(), content)
		require.NoError(t, err)

		for _, tx := range result.Transactions {
			assert.Equal(t, tx.Type == models.TransactionTypeExpense, tx.PaidOut.Decimal.IsPositive())
			assert.Equal(t, tx.Type == models.TransactionTypeIncome, tx.PaidIn.Decimal.IsPositive())
			assert.False(t, tx.PaidOut.Decimal.IsPositive() && tx.PaidIn.Decimal.IsPositive())
		}
	}
}

func TestParse_MalformedCSV(t *testing.T) {
	content := "Date,Description,Paid Out\n15/01/2024,\"unterminated,1\n"

	_, err := TBC().Parse(context.Background(), content)
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	result, err := TBC().Parse(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, result.Transactions)
}

func TestParse_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := TBC().Parse(ctx, tbcStatement)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPreprocess(t *testing.T) {
	got := preprocess(byteOrderMark + "თარიღი,აღწერა\r\nDate,Description\r\n1,2\r")
	assert.Equal(t, "Date,Description\n1,2\n", got)

	// A Georgian-only header is kept.
	got = preprocess("თარიღი,დანიშნულება\n01/01/2024,update fee\n")
	assert.Equal(t, "თარიღი,დანიშნულება\n01/01/2024,update fee\n", got)
}
