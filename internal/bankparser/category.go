package bankparser

import (
	"regexp"
	"strings"
)

// KeywordRule maps a substring of a statement description to a category name.
type KeywordRule struct {
	Keyword  string
	Category string
}

// KeywordTable is scanned in order; the first matching rule wins.
type KeywordTable []KeywordRule

var mccPattern = regexp.MustCompile(`MCC:\s*(\d+)`)

var mccCategories = map[string]string{
	"5411": "Groceries",      // grocery stores, supermarkets
	"5541": "Fuel",           // service stations
	"5812": "Restaurants",    // eating places
	"5814": "Fast Food",      // fast food restaurants
	"4511": "Transportation", // airlines
	"4121": "Transportation", // taxicabs and limousines
	"8011": "Healthcare",     // doctors
	"5912": "Pharmacy",       // drug stores
	"5651": "Clothing",       // family clothing stores
	"5732": "Electronics",    // electronics stores
	"5945": "Entertainment",  // hobby, toy and game shops
}

const mccFallbackCategory = "Other"

// Infer guesses a category name from a description and an optional
// secondary text. Keywords are tried first, then an embedded MCC code.
// An empty result means the transaction stays uncategorized.
func (t KeywordTable) Infer(description, extra string) string {
	text := description + " " + extra

	for _, rule := range t {
		if strings.Contains(text, rule.Keyword) {
			return rule.Category
		}
	}

	if m := mccPattern.FindStringSubmatch(text); m != nil {
		return mccCategory(m[1])
	}

	return ""
}

func mccCategory(code string) string {
	if category, ok := mccCategories[code]; ok {
		return category
	}
	return mccFallbackCategory
}
