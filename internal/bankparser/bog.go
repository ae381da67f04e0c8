package bankparser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BOG statement columns. The header is Georgian only:
// თარიღი,დანიშნულება,,GEL,USD,EUR,GBP
const (
	bogDate        = "თარიღი"
	bogDescription = "დანიშნულება"
)

// bogCurrencies is the order in which currency columns are tried; a row
// carries its net amount in exactly one of them.
var bogCurrencies = [...]string{"GEL", "USD", "EUR", "GBP"}

// BOG returns the Bank of Georgia statement format. BOG reports one signed
// amount per row and no running balance.
func BOG() *Format {
	return &Format{
		Code: BankBOG,
		Keywords: KeywordTable{
			{"მიკროავტობუსი", "Transportation"},
			{"ავტობუსი", "Transportation"},
			{"მეტრო", "Transportation"},
			{"ტაქსი", "Transportation"},
			{"სუპერმარკეტი", "Groceries"},
			{"მაღაზია", "Shopping"},
			{"რესტორანი", "Restaurants"},
			{"კაფე", "Coffee"},
			{"ფაუჭი", "Restaurants"},
			{"ელ.ენერგია", "Utilities"},
			{"გაზი", "Utilities"},
			{"წყალი", "Utilities"},
			{"ინტერნეტი", "Internet"},
			{"მობილური", "Mobile"},
			{"ტელეფონი", "Mobile"},
			{"ჰოსპიტალი", "Healthcare"},
			{"კლინიკა", "Healthcare"},
			{"ფარმაცია", "Pharmacy"},
			{"აფთიაქი", "Pharmacy"},
			{"კინო", "Entertainment"},
			{"თეატრი", "Entertainment"},
			{"ტანისამოსი", "Clothing"},
			{"ბენზინი", "Fuel"},
			{"დიზელი", "Fuel"},
			{"საწვავი", "Fuel"},
		},
		detect: detectBOG,
		mapRow: mapBOGRow,
	}
}

// detectBOG must reject TBC's dual header, whose second line is English.
func detectBOG(line1, line2 string, _ int) bool {
	return strings.Contains(line1, bogDate) &&
		strings.Contains(line1, bogDescription) &&
		strings.Contains(line1, "gel") &&
		!strings.Contains(line2, "date")
}

func mapBOGRow(r row, keywords KeywordTable) (NormalizedTransaction, bool) {
	date, ok := ParseDate(r.get(bogDate))
	if !ok {
		return NormalizedTransaction{}, false
	}

	amount := decimal.Zero
	for _, currency := range bogCurrencies {
		if value := r.get(currency); value != "" {
			amount = RoundAmount(ParseAmount(value))
			break
		}
	}

	// The sign of the amount is trusted as-is; there is no balance to
	// reconcile against. Only the side the sign picks is present.
	var paidOut, paidIn decimal.NullDecimal
	switch {
	case amount.IsNegative():
		paidOut = decimal.NewNullDecimal(amount.Abs())
	case amount.IsPositive():
		paidIn = decimal.NewNullDecimal(amount)
	}

	description := r.get(bogDescription)
	return NormalizedTransaction{
		Date:             date,
		Description:      description,
		PaidOut:          paidOut,
		PaidIn:           paidIn,
		Balance:          decimal.Zero,
		Type:             Classify(paidOut.Decimal, paidIn.Decimal),
		DetectedCategory: keywords.Infer(description, ""),
	}, true
}
