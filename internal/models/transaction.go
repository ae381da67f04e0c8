package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

type Transaction struct {
	ID                    int64               `db:"id"`
	UserID                int64               `db:"user_id"`
	CategoryID            *int64              `db:"category_id"`
	Type                  TransactionType     `db:"type"`
	Date                  time.Time           `db:"date"`
	Description           string              `db:"description"`
	AdditionalInformation *string             `db:"additional_information"`
	PaidOut               decimal.NullDecimal `db:"paid_out"`
	PaidIn                decimal.NullDecimal `db:"paid_in"`
	Balance               decimal.Decimal     `db:"balance"`
	DocumentDate          *time.Time          `db:"document_date"`
	DocumentNumber        *string             `db:"document_number"`
	PartnersAccount       *string             `db:"partners_account"`
	PartnersName          *string             `db:"partners_name"`
	PartnersTaxCode       *string             `db:"partners_tax_code"`
	PartnersBankCode      *string             `db:"partners_bank_code"`
	IntermediaryBankCode  *string             `db:"intermediary_bank_code"`
	ChargeDetails         *string             `db:"charge_details"`
	TaxpayerCode          *string             `db:"taxpayer_code"`
	TaxpayerName          *string             `db:"taxpayer_name"`
	TreasuryCode          *string             `db:"treasury_code"`
	OpCode                *string             `db:"op_code"`
	AdditionalDescription *string             `db:"additional_description"`
	TransactionID         *string             `db:"transaction_id"` // bank-issued id, used for dedup
	DetectedCategory      *string             `db:"detected_category"`
	CategoryName          *string             `db:"-"` // joined from categories on reads
	CreatedAt             time.Time           `db:"created_at"`
	UpdatedAt             time.Time           `db:"updated_at"`
}

// Amount returns whichever side of the transaction carries money.
func (t *Transaction) Amount() decimal.Decimal {
	if t.PaidOut.Valid && !t.PaidOut.Decimal.IsZero() {
		return t.PaidOut.Decimal
	}
	if t.PaidIn.Valid {
		return t.PaidIn.Decimal
	}
	return decimal.Zero
}

// TransactionFilter narrows a transaction listing for one owner.
type TransactionFilter struct {
	UserID     int64
	CategoryID *int64
	Type       *TransactionType
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

// DedupKey identifies an imported row by its content when the bank gave no transaction id.
type DedupKey struct {
	UserID      int64
	Date        time.Time
	PaidOut     decimal.NullDecimal
	PaidIn      decimal.NullDecimal
	Description string
}
