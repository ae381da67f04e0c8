package service

import (
	"sort"

	"financer/internal/dto"
	"financer/internal/models"

	"github.com/shopspring/decimal"
)

const uncategorized = "Uncategorized"

var hundred = decimal.NewFromInt(100)

func computeStats(transactions []*models.Transaction) *dto.StatsResponse {
	stats := &dto.StatsResponse{
		TotalExpenses:            decimal.Zero,
		TotalIncome:              decimal.Zero,
		ExpensesByCategory:       []dto.CategoryExpense{},
		MonthlyTrends:            []dto.MonthlyTrend{},
		MonthlyTrendsPerCategory: []dto.CategoryTrend{},
	}

	byCategory := map[string]decimal.Decimal{}
	byMonth := map[string]*dto.MonthlyTrend{}
	byCategoryMonth := map[string]map[string]decimal.Decimal{}

	for _, tx := range transactions {
		month := tx.Date.Format("2006-01")
		trend, ok := byMonth[month]
		if !ok {
			trend = &dto.MonthlyTrend{Month: month, Expenses: decimal.Zero, Income: decimal.Zero}
			byMonth[month] = trend
		}

		switch tx.Type {
		case models.TransactionTypeExpense:
			amount := tx.PaidOut.Decimal
			stats.TotalExpenses = stats.TotalExpenses.Add(amount)
			trend.Expenses = trend.Expenses.Add(amount)

			name := categoryLabel(tx)
			byCategory[name] = byCategory[name].Add(amount)
			if byCategoryMonth[name] == nil {
				byCategoryMonth[name] = map[string]decimal.Decimal{}
			}
			byCategoryMonth[name][month] = byCategoryMonth[name][month].Add(amount)
		case models.TransactionTypeIncome:
			amount := tx.PaidIn.Decimal
			stats.TotalIncome = stats.TotalIncome.Add(amount)
			trend.Income = trend.Income.Add(amount)
		}
	}

	for name, amount := range byCategory {
		percentage := decimal.Zero
		if stats.TotalExpenses.IsPositive() {
			percentage = amount.Div(stats.TotalExpenses).Mul(hundred).Round(2)
		}
		stats.ExpensesByCategory = append(stats.ExpensesByCategory, dto.CategoryExpense{
			Category:   name,
			Amount:     amount,
			Percentage: percentage,
		})
	}
	sort.Slice(stats.ExpensesByCategory, func(i, j int) bool {
		a, b := stats.ExpensesByCategory[i], stats.ExpensesByCategory[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Category < b.Category
	})

	for _, trend := range byMonth {
		stats.MonthlyTrends = append(stats.MonthlyTrends, *trend)
	}
	sort.Slice(stats.MonthlyTrends, func(i, j int) bool {
		return stats.MonthlyTrends[i].Month < stats.MonthlyTrends[j].Month
	})

	for name, months := range byCategoryMonth {
		trend := dto.CategoryTrend{Category: name}
		for month, amount := range months {
			trend.Trends = append(trend.Trends, dto.MonthlyAmount{Month: month, Amount: amount})
		}
		sort.Slice(trend.Trends, func(i, j int) bool {
			return trend.Trends[i].Month < trend.Trends[j].Month
		})
		stats.MonthlyTrendsPerCategory = append(stats.MonthlyTrendsPerCategory, trend)
	}
	sort.Slice(stats.MonthlyTrendsPerCategory, func(i, j int) bool {
		return stats.MonthlyTrendsPerCategory[i].Category < stats.MonthlyTrendsPerCategory[j].Category
	})

	return stats
}

// categoryLabel prefers the assigned category, then the detected one.
func categoryLabel(tx *models.Transaction) string {
	if tx.CategoryName != nil && *tx.CategoryName != "" {
		return *tx.CategoryName
	}
	if tx.DetectedCategory != nil && *tx.DetectedCategory != "" {
		return *tx.DetectedCategory
	}
	return uncategorized
}
