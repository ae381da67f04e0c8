package dto

import "github.com/shopspring/decimal"

// DateLayout is the wire format of calendar dates in requests and responses.
const DateLayout = "2006-01-02"

type TransactionResponse struct {
	ID                    int64            `json:"id"`
	Type                  string           `json:"type"`
	Date                  string           `json:"date"`
	Description           string           `json:"description"`
	AdditionalInformation *string          `json:"additional_information,omitempty"`
	PaidOut               *decimal.Decimal `json:"paid_out,omitempty"`
	PaidIn                *decimal.Decimal `json:"paid_in,omitempty"`
	Balance               decimal.Decimal  `json:"balance"`
	CategoryID            *int64           `json:"category_id,omitempty"`
	CategoryName          *string          `json:"category_name,omitempty"`
	DetectedCategory      *string          `json:"detected_category,omitempty"`
	DocumentDate          *string          `json:"document_date,omitempty"`
	DocumentNumber        *string          `json:"document_number,omitempty"`
	PartnersAccount       *string          `json:"partners_account,omitempty"`
	PartnersName          *string          `json:"partners_name,omitempty"`
	PartnersTaxCode       *string          `json:"partners_tax_code,omitempty"`
	PartnersBankCode      *string          `json:"partners_bank_code,omitempty"`
	IntermediaryBankCode  *string          `json:"intermediary_bank_code,omitempty"`
	ChargeDetails         *string          `json:"charge_details,omitempty"`
	TaxpayerCode          *string          `json:"taxpayer_code,omitempty"`
	TaxpayerName          *string          `json:"taxpayer_name,omitempty"`
	TreasuryCode          *string          `json:"treasury_code,omitempty"`
	OpCode                *string          `json:"op_code,omitempty"`
	AdditionalDescription *string          `json:"additional_description,omitempty"`
	TransactionID         *string          `json:"transaction_id,omitempty"`
	CreatedAt             string           `json:"created_at"`
	UpdatedAt             string           `json:"updated_at"`
}

type CreateTransactionRequest struct {
	Date                  string           `json:"date"`
	Description           string           `json:"description"`
	AdditionalInformation *string          `json:"additional_information"`
	PaidOut               *decimal.Decimal `json:"paid_out"`
	PaidIn                *decimal.Decimal `json:"paid_in"`
	Balance               *decimal.Decimal `json:"balance"`
	CategoryID            *int64           `json:"category_id"`
	Type                  string           `json:"type"`
	TransactionID         *string          `json:"transaction_id"`
}

// UpdateTransactionRequest is a partial update; nil fields are left alone.
type UpdateTransactionRequest struct {
	Date                  *string          `json:"date"`
	Description           *string          `json:"description"`
	AdditionalInformation *string          `json:"additional_information"`
	PaidOut               *decimal.Decimal `json:"paid_out"`
	PaidIn                *decimal.Decimal `json:"paid_in"`
	Balance               *decimal.Decimal `json:"balance"`
	CategoryID            *int64           `json:"category_id"`
	Type                  *string          `json:"type"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
}

// ImportReport summarises one import run. Errors holds one message per
// record that could not be stored.
type ImportReport struct {
	Bank     string   `json:"bank,omitempty"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Dropped  int      `json:"dropped"`
	Errors   []string `json:"errors"`
}

type SupportedBanksResponse struct {
	Banks []string `json:"banks"`
}
