package recommend

import (
	"strings"

	"github.com/torqueup/assistant-api/internal/domain/entity"
)

// ConversationContext flattens prior customer turns and the current message
// into one lowercase string used for keyword matching. Assistant turns are
// ignored; turns with empty text are skipped so the result stays
// single-space separated. No length bound is applied here: callers truncate
// the turn list at the boundary.
func ConversationContext(turns []entity.ConversationTurn, current string) string {
	parts := make([]string, 0, len(turns)+1)
	for _, t := range turns {
		if t.IsUser && t.Text != "" {
			parts = append(parts, t.Text)
		}
	}
	if current != "" {
		parts = append(parts, current)
	}
	return strings.ToLower(strings.Join(parts, " "))
}
