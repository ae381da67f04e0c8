package dto

import "github.com/shopspring/decimal"

type CategoryExpense struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

type MonthlyTrend struct {
	Month    string          `json:"month"` // YYYY-MM
	Expenses decimal.Decimal `json:"expenses"`
	Income   decimal.Decimal `json:"income"`
}

type MonthlyAmount struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

type CategoryTrend struct {
	Category string          `json:"category"`
	Trends   []MonthlyAmount `json:"trends"`
}

type StatsResponse struct {
	TotalExpenses            decimal.Decimal   `json:"total_expenses"`
	TotalIncome              decimal.Decimal   `json:"total_income"`
	ExpensesByCategory       []CategoryExpense `json:"expenses_by_category"`
	MonthlyTrends            []MonthlyTrend    `json:"monthly_trends"`
	MonthlyTrendsPerCategory []CategoryTrend   `json:"monthly_trends_per_category"`
}

type SpendingSuggestion struct {
	Category         string  `json:"category"`
	Suggestion       string  `json:"suggestion"`
	PotentialSavings float64 `json:"potentialSavings"`
	Priority         string  `json:"priority"`
}

type SuggestionsResponse struct {
	Suggestions []SpendingSuggestion `json:"suggestions"`
	Message     string               `json:"message,omitempty"`
}
