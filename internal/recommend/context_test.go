package recommend

import (
	"testing"

	"github.com/torqueup/assistant-api/internal/domain/entity"
)

func TestConversationContext(t *testing.T) {
	tests := []struct {
		name    string
		turns   []entity.ConversationTurn
		current string
		want    string
	}{
		{
			name:    "no prior turns",
			current: "I Want A Car",
			want:    "i want a car",
		},
		{
			name: "assistant turns are ignored",
			turns: []entity.ConversationTurn{
				{Text: "Looking for a Toyota", IsUser: true},
				{Text: "Sure, we have several Toyotas.", IsUser: false},
				{Text: "Something for the FAMILY", IsUser: true},
			},
			current: "under 1,000,000 please",
			want:    "looking for a toyota something for the family under 1,000,000 please",
		},
		{
			name: "empty user turns do not double spaces",
			turns: []entity.ConversationTurn{
				{Text: "", IsUser: true},
				{Text: "city driving", IsUser: true},
			},
			current: "compact",
			want:    "city driving compact",
		},
		{
			name: "empty everything",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConversationContext(tt.turns, tt.current)
			if got != tt.want {
				t.Errorf("ConversationContext() = %q, want %q", got, tt.want)
			}
		})
	}
}
