package insight

import (
	"fmt"
	"strings"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
)

// advisorPrompt is the fixed system instruction for every generation. The
// previous-insight context is appended under the Previous Context heading.
const advisorPrompt = `You are my personal finance advisor. Please analyze my expenses and provide:
- Key spending patterns
- Specific saving opportunities
- Practical tips for better financial management
Be concise, specific, and use bullet points. Keep it under 150 words.

Previous Context:
%s`

// advisorAck is the canned model turn that closes the seeded history.
const advisorAck = "I'll analyze your spending patterns and provide personalized recommendations."

// composeContext chains prior insights into the context string fed back to
// the reasoning service, most recent first as fetched.
func composeContext(previous []domain.Insight) string {
	lines := make([]string, 0, len(previous))
	for _, in := range previous {
		lines = append(lines, fmt.Sprintf("Previous Insight (%s): %s", in.FormattedDate(), in.Text))
	}
	return strings.Join(lines, "\n")
}

// seedHistory builds the two-turn history that opens a session.
func seedHistory(contextText string) []Turn {
	return []Turn{
		{Role: "user", Text: fmt.Sprintf(advisorPrompt, contextText)},
		{Role: "model", Text: advisorAck},
	}
}

// analysisMessage flattens the day's budget figure and transactions into the
// message sent for analysis.
func analysisMessage(settings domain.BudgetSettings, txs []domain.Transaction) string {
	details := make([]string, 0, len(txs))
	for _, tx := range txs {
		details = append(details, fmt.Sprintf("Category: %s, Amount: %s, Title: %s", tx.Category, tx.Amount, tx.Title))
	}
	return fmt.Sprintf("Monthly Budget: $%s\n\nRecent Expenses:\n%s\n\nBased on this data, please provide your analysis and recommendations.",
		settings.MonthlyBudget, strings.Join(details, "\n"))
}
