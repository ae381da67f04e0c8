package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"financer/internal/dto"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrNoSuggestions = errors.New("no suggestions available")

const suggestionSystemPrompt = `You are a personal finance advisor. Analyze spending data and provide actionable suggestions to improve financial health.

Return ONLY a valid JSON array with this exact structure, without markdown or any other text:
[
  {
    "category": "string",
    "suggestion": "string",
    "potentialSavings": number,
    "priority": "high" | "medium" | "low"
  }
]

Focus on categories with the highest spending, unusual spending patterns and practical money-saving tips.
Keep suggestions specific and realistic. Limit to 3-5 suggestions.`

var (
	jsonFence    = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	genericFence = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// Completer sends one system+user prompt pair to a chat model and returns
// the raw text of its answer.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type StatsProvider interface {
	Stats(ctx context.Context, userID int64, start, end *time.Time) (*dto.StatsResponse, error)
}

type SuggestionService struct {
	stats     StatsProvider
	completer Completer
	logger    *zap.Logger
}

func NewSuggestionService(stats StatsProvider, completer Completer, logger *zap.Logger) *SuggestionService {
	return &SuggestionService{
		stats:     stats,
		completer: completer,
		logger:    logger,
	}
}

// Suggest asks the model for spending advice based on the owner's stats.
// Any failure yields an empty list and ErrNoSuggestions.
func (s *SuggestionService) Suggest(ctx context.Context, userID int64, start, end *time.Time) ([]dto.SpendingSuggestion, error) {
	stats, err := s.stats.Stats(ctx, userID, start, end)
	if err != nil {
		s.logger.Error("Failed to load stats for suggestions", zap.Int64("user_id", userID), zap.Error(err))
		return []dto.SpendingSuggestion{}, ErrNoSuggestions
	}

	raw, err := s.completer.Complete(ctx, suggestionSystemPrompt, buildSuggestionPrompt(stats))
	if err != nil {
		s.logger.Error("Failed to generate suggestions", zap.Int64("user_id", userID), zap.Error(err))
		return []dto.SpendingSuggestion{}, ErrNoSuggestions
	}

	suggestions, err := parseSuggestions(raw)
	if err != nil {
		s.logger.Error("Invalid suggestions response",
			zap.Int64("user_id", userID),
			zap.String("response", raw),
			zap.Error(err),
		)
		return []dto.SpendingSuggestion{}, ErrNoSuggestions
	}

	s.logger.Info("Suggestions generated", zap.Int64("user_id", userID), zap.Int("count", len(suggestions)))
	return suggestions, nil
}

func parseSuggestions(raw string) ([]dto.SpendingSuggestion, error) {
	content := extractJSON(raw)
	if content == "" {
		return nil, errors.New("empty response")
	}

	var suggestions []dto.SpendingSuggestion
	if err := json.Unmarshal([]byte(content), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	if suggestions == nil {
		return nil, errors.New("response is not an array")
	}
	return suggestions, nil
}

// extractJSON unwraps a ```json fence, then any fence, else trims raw.
func extractJSON(raw string) string {
	if m := jsonFence.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := genericFence.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

func buildSuggestionPrompt(stats *dto.StatsResponse) string {
	var b strings.Builder

	savingsRate := decimal.Zero
	if stats.TotalIncome.IsPositive() {
		savingsRate = stats.TotalIncome.Sub(stats.TotalExpenses).Div(stats.TotalIncome).Mul(hundred)
	}

	b.WriteString("Analyze this user's financial data and provide 3-5 personalized spending improvement suggestions.\n\n")
	b.WriteString("FINANCIAL OVERVIEW:\n")
	fmt.Fprintf(&b, "- Total Expenses: %s\n", stats.TotalExpenses.StringFixed(2))
	fmt.Fprintf(&b, "- Total Income: %s\n", stats.TotalIncome.StringFixed(2))
	fmt.Fprintf(&b, "- Savings Rate: %s%%\n\n", savingsRate.StringFixed(1))

	b.WriteString("SPENDING BY CATEGORY:\n")
	for _, c := range stats.ExpensesByCategory {
		fmt.Fprintf(&b, "%s: %s (%s%%)\n", c.Category, c.Amount.StringFixed(2), c.Percentage.StringFixed(1))
	}

	b.WriteString("\nRECENT MONTHLY TRENDS:\n")
	trends := stats.MonthlyTrends
	if len(trends) > 3 {
		trends = trends[len(trends)-3:]
	}
	for _, t := range trends {
		fmt.Fprintf(&b, "%s: Expenses %s, Income %s\n", t.Month, t.Expenses.StringFixed(2), t.Income.StringFixed(2))
	}

	return b.String()
}
