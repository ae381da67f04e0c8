package bankparser

import (
	"time"

	"financer/internal/models"

	"github.com/shopspring/decimal"
)

// NormalizedTransaction is one statement row after bank-specific mapping.
// Empty strings mean the bank did not report the field.
type NormalizedTransaction struct {
	Date                  time.Time
	Description           string
	AdditionalInformation string
	PaidOut               decimal.NullDecimal
	PaidIn                decimal.NullDecimal
	Balance               decimal.Decimal
	Type                  models.TransactionType

	DocumentDate          *time.Time
	DocumentNumber        string
	PartnersAccount       string
	PartnersName          string
	PartnersTaxCode       string
	PartnersBankCode      string
	IntermediaryBankCode  string
	ChargeDetails         string
	TaxpayerCode          string
	TaxpayerName          string
	TreasuryCode          string
	OpCode                string
	AdditionalDescription string

	TransactionID    string
	DetectedCategory string
}

// Classify derives the transaction type from the two money columns.
func Classify(paidOut, paidIn decimal.Decimal) models.TransactionType {
	switch {
	case paidOut.IsPositive():
		return models.TransactionTypeExpense
	case paidIn.IsPositive():
		return models.TransactionTypeIncome
	default:
		return models.TransactionTypeTransfer
	}
}
