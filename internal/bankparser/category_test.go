package bankparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordTable_Infer(t *testing.T) {
	table := KeywordTable{
		{"coffee", "Coffee"},
		{"shop", "Shopping"},
		{"coffee shop", "Never reached"},
	}

	tests := []struct {
		name        string
		description string
		extra       string
		want        string
	}{
		{"first match wins", "coffee shop downtown", "", "Coffee"},
		{"match in extra text", "card payment", "shop 12", "Shopping"},
		{"known MCC", "card payment MCC:5411", "", "Groceries"},
		{"MCC with space", "card payment", "MCC: 5912", "Pharmacy"},
		{"unknown MCC", "card payment MCC:1234", "", "Other"},
		{"keyword beats MCC", "coffee MCC:5411", "", "Coffee"},
		{"nothing", "transfer to savings", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Infer(tt.description, tt.extra))
		})
	}
}

func TestBankKeywordTables(t *testing.T) {
	assert.Equal(t, "Groceries", TBC().Keywords.Infer("სასურსათო მაღაზიები ნიკორა", ""))
	assert.Equal(t, "Transportation", BOG().Keywords.Infer("გადახდა ტაქსი", ""))
	// "მიკროავტობუსი" contains "ავტობუსი"; both map to the same category.
	assert.Equal(t, "Transportation", BOG().Keywords.Infer("მიკროავტობუსი", ""))
	assert.Equal(t, "Shopping", BOG().Keywords.Infer("მაღაზია", ""))
}
