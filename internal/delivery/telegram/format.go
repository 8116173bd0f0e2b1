package telegram

import (
	"fmt"
	"strings"

	"github.com/torqueup/assistant-api/internal/domain/entity"
	"github.com/torqueup/assistant-api/internal/usecase"
)

// formatRecommendations renders a recommendation payload as plain text,
// since Telegram has no card widget.
func formatRecommendations(rec *usecase.Recommendation) string {
	var sb strings.Builder
	sb.WriteString(rec.Title + ":\n")

	switch items := rec.Items.(type) {
	case []entity.Vehicle:
		for i, v := range items {
			sb.WriteString(fmt.Sprintf("%d. %s %s", i+1, v.Make, v.Model))
			if v.Year > 0 {
				sb.WriteString(fmt.Sprintf(" (%d)", v.Year))
			}
			sb.WriteString(fmt.Sprintf(" - $%.0f\n", v.Price))
		}
	case []entity.Part:
		for i, p := range items {
			sb.WriteString(fmt.Sprintf("%d. %s - $%.0f", i+1, p.Title, p.Price))
			if p.Seller != "" {
				sb.WriteString(" (" + p.Seller + ")")
			}
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
