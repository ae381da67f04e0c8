package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"financer/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCompleter struct {
	response string
	err      error
	system   string
	prompt   string
}

func (s *stubCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	s.system, s.prompt = system, prompt
	return s.response, s.err
}

type stubStats struct {
	stats *dto.StatsResponse
	err   error
}

func (s stubStats) Stats(context.Context, int64, *time.Time, *time.Time) (*dto.StatsResponse, error) {
	return s.stats, s.err
}

func sampleStats() *dto.StatsResponse {
	return &dto.StatsResponse{
		TotalExpenses: decimal.NewFromInt(800),
		TotalIncome:   decimal.NewFromInt(1000),
		ExpensesByCategory: []dto.CategoryExpense{
			{Category: "Restaurants", Amount: decimal.NewFromInt(500), Percentage: decimal.RequireFromString("62.5")},
			{Category: "Groceries", Amount: decimal.NewFromInt(300), Percentage: decimal.RequireFromString("37.5")},
		},
		MonthlyTrends: []dto.MonthlyTrend{
			{Month: "2024-01", Expenses: decimal.NewFromInt(100), Income: decimal.Zero},
			{Month: "2024-02", Expenses: decimal.NewFromInt(200), Income: decimal.Zero},
			{Month: "2024-03", Expenses: decimal.NewFromInt(250), Income: decimal.NewFromInt(500)},
			{Month: "2024-04", Expenses: decimal.NewFromInt(250), Income: decimal.NewFromInt(500)},
		},
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"json fence", "Here you go:\n```json\n[{\"a\":1}]\n```\nthanks", `[{"a":1}]`},
		{"plain fence", "```\n[]\n```", "[]"},
		{"bare", "  [1, 2]  ", "[1, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.raw))
		})
	}
}

func TestSuggest(t *testing.T) {
	completer := &stubCompleter{response: "```json\n" +
		`[{"category":"Restaurants","suggestion":"Cook at home twice a week","potentialSavings":120.5,"priority":"high"}]` +
		"\n```"}
	svc := NewSuggestionService(stubStats{stats: sampleStats()}, completer, zap.NewNop())

	suggestions, err := svc.Suggest(context.Background(), testUserID, nil, nil)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Restaurants", suggestions[0].Category)
	assert.Equal(t, "high", suggestions[0].Priority)
	assert.InDelta(t, 120.5, suggestions[0].PotentialSavings, 1e-9)

	assert.Contains(t, completer.system, "JSON array")
	assert.Contains(t, completer.prompt, "Savings Rate: 20.0%")
	assert.Contains(t, completer.prompt, "Restaurants: 500.00 (62.5%)")
	assert.NotContains(t, completer.prompt, "2024-01:")
	assert.Contains(t, completer.prompt, "2024-04: Expenses 250.00, Income 500.00")
}

func TestSuggest_FailuresYieldEmptyList(t *testing.T) {
	tests := []struct {
		name      string
		stats     stubStats
		completer *stubCompleter
	}{
		{"stats error", stubStats{err: errors.New("db down")}, &stubCompleter{response: "[]"}},
		{"completer error", stubStats{stats: sampleStats()}, &stubCompleter{err: errors.New("timeout")}},
		{"not json", stubStats{stats: sampleStats()}, &stubCompleter{response: "Sorry, I cannot help."}},
		{"not an array", stubStats{stats: sampleStats()}, &stubCompleter{response: `{"category":"x"}`}},
		{"empty", stubStats{stats: sampleStats()}, &stubCompleter{response: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSuggestionService(tt.stats, tt.completer, zap.NewNop())
			suggestions, err := svc.Suggest(context.Background(), testUserID, nil, nil)
			assert.ErrorIs(t, err, ErrNoSuggestions)
			assert.NotNil(t, suggestions)
			assert.Empty(t, suggestions)
		})
	}
}
