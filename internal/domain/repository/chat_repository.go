package repository

import (
	"context"

	"github.com/torqueup/assistant-api/internal/domain/entity"
)

// ChatRepository stores per-session chat history.
type ChatRepository interface {
	// SaveMessage persists one exchange.
	SaveMessage(ctx context.Context, message entity.Message) error

	// GetHistory returns the most recent limit exchanges for a session,
	// oldest first. limit <= 0 returns everything.
	GetHistory(ctx context.Context, sessionID string, limit int) ([]entity.Message, error)

	// GetAllMessages returns the most recent limit exchanges across all
	// sessions, newest first.
	GetAllMessages(ctx context.Context, limit int) ([]entity.Message, error)

	// ClearHistory drops one session's history.
	ClearHistory(ctx context.Context, sessionID string) error

	// ClearAll drops every session.
	ClearAll(ctx context.Context) error

	// GetContext returns the full stored context of a session.
	GetContext(ctx context.Context, sessionID string) (*entity.ChatContext, error)
}
