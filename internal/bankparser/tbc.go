package bankparser

import (
	"strings"
)

// TBC statement columns (English header row).
const (
	tbcDate                  = "Date"
	tbcDescription           = "Description"
	tbcAdditionalInformation = "Additional Information"
	tbcPaidOut               = "Paid Out"
	tbcPaidIn                = "Paid In"
	tbcBalance               = "Balance"
	tbcDocumentDate          = "Document Date"
	tbcDocumentNumber        = "Document Number"
	tbcPartnersAccount       = "Partner's Account"
	tbcPartnersName          = "Partner's Name"
	tbcPartnersTaxCode       = "Partner's Tax Code"
	tbcPartnersBankCode      = "Partner's Bank Code"
	tbcIntermediaryBankCode  = "Intermediary Bank Code"
	tbcChargeDetails         = "Charge Details"
	tbcTaxpayerCode          = "Taxpayer Code"
	tbcTaxpayerName          = "Taxpayer Name"
	tbcTreasuryCode          = "Treasury Code"
	tbcOpCode                = "Op. Code"
	tbcAdditionalDescription = "Additional Description"
	tbcTransactionID         = "Transaction ID"
)

// TBC returns the TBC Bank statement format. TBC exports a Georgian header
// line followed by an English one and reports paid out, paid in and the
// running balance in separate columns.
func TBC() *Format {
	return &Format{
		Code: BankTBC,
		Keywords: KeywordTable{
			{"სასურსათო მაღაზიები", "Groceries"},
			{"ავტობენზინი", "Fuel"},
			{"რესტორანი", "Restaurants"},
			{"კაფე", "Coffee"},
			{"ტრანსპორტი", "Transportation"},
			{"სამედიცინო", "Healthcare"},
			{"განათლება", "Education"},
			{"გართობა", "Entertainment"},
			{"ტანისამოსი", "Clothing"},
			{"ფარმაცია", "Pharmacy"},
			{"კომუნალური", "Utilities"},
			{"მობილური", "Mobile"},
			{"ინტერნეტი", "Internet"},
		},
		detect: detectTBC,
		mapRow: mapTBCRow,
	}
}

func detectTBC(line1, line2 string, lineCount int) bool {
	if lineCount < 2 {
		return false
	}
	return (strings.Contains(line1, georgianDateHeader) && strings.Contains(line2, "date")) ||
		strings.Contains(line2, "paid out") ||
		strings.Contains(line2, "paid in") ||
		strings.Contains(line2, "balance")
}

func mapTBCRow(r row, keywords KeywordTable) (NormalizedTransaction, bool) {
	date, ok := ParseDate(r.get(tbcDate))
	if !ok {
		return NormalizedTransaction{}, false
	}

	paidOut := cellAmount(r.get(tbcPaidOut))
	paidIn := cellAmount(r.get(tbcPaidIn))

	tx := NormalizedTransaction{
		Date:                  date,
		Description:           r.get(tbcDescription),
		AdditionalInformation: r.get(tbcAdditionalInformation),
		PaidOut:               paidOut,
		PaidIn:                paidIn,
		Balance:               RoundAmount(ParseAmount(r.get(tbcBalance))),
		Type:                  Classify(paidOut.Decimal, paidIn.Decimal),
		DocumentNumber:        r.get(tbcDocumentNumber),
		PartnersAccount:       r.get(tbcPartnersAccount),
		PartnersName:          r.get(tbcPartnersName),
		PartnersTaxCode:       r.get(tbcPartnersTaxCode),
		PartnersBankCode:      r.get(tbcPartnersBankCode),
		IntermediaryBankCode:  r.get(tbcIntermediaryBankCode),
		ChargeDetails:         r.get(tbcChargeDetails),
		TaxpayerCode:          r.get(tbcTaxpayerCode),
		TaxpayerName:          r.get(tbcTaxpayerName),
		TreasuryCode:          r.get(tbcTreasuryCode),
		OpCode:                r.get(tbcOpCode),
		AdditionalDescription: r.get(tbcAdditionalDescription),
		TransactionID:         r.get(tbcTransactionID),
	}
	if documentDate, ok := ParseDate(r.get(tbcDocumentDate)); ok {
		tx.DocumentDate = &documentDate
	}
	tx.DetectedCategory = keywords.Infer(tx.Description, tx.AdditionalInformation)

	return tx, true
}
