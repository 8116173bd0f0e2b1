package repository

import (
	"context"

	"github.com/torqueup/assistant-api/internal/domain/entity"
)

// AIRepository generates assistant replies.
type AIRepository interface {
	// GenerateReply produces a reply for prompt given the prior session
	// history, oldest turn first.
	GenerateReply(ctx context.Context, prompt string, history []entity.Message) (string, error)
}
