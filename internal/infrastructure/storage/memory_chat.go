package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/torqueup/assistant-api/internal/domain/entity"
	"github.com/torqueup/assistant-api/internal/domain/repository"
)

type memoryChatRepository struct {
	mu       sync.RWMutex
	contexts map[string]*entity.ChatContext
	maxSize  int
}

// NewMemoryChatRepository creates an in-memory chat history repository.
func NewMemoryChatRepository(maxContextSize int) repository.ChatRepository {
	return &memoryChatRepository{
		contexts: make(map[string]*entity.ChatContext),
		maxSize:  maxContextSize,
	}
}

// SaveMessage persists one exchange and trims the session to maxSize.
func (m *memoryChatRepository) SaveMessage(ctx context.Context, message entity.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	chatCtx, exists := m.contexts[message.SessionID]
	if !exists {
		chatCtx = &entity.ChatContext{
			SessionID: message.SessionID,
			Messages:  []entity.Message{},
			LastUsed:  time.Now(),
		}
		m.contexts[message.SessionID] = chatCtx
	}

	chatCtx.Messages = append(chatCtx.Messages, message)
	chatCtx.LastUsed = time.Now()

	if len(chatCtx.Messages) > m.maxSize {
		chatCtx.Messages = chatCtx.Messages[len(chatCtx.Messages)-m.maxSize:]
	}

	return nil
}

// GetHistory returns the most recent limit exchanges, oldest first.
func (m *memoryChatRepository) GetHistory(ctx context.Context, sessionID string, limit int) ([]entity.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chatCtx, exists := m.contexts[sessionID]
	if !exists {
		return []entity.Message{}, nil
	}

	messages := chatCtx.Messages
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

// GetAllMessages returns exchanges across every session, newest first.
func (m *memoryChatRepository) GetAllMessages(ctx context.Context, limit int) ([]entity.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []entity.Message
	for _, chatCtx := range m.contexts {
		all = append(all, chatCtx.Messages...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ClearHistory drops one session.
func (m *memoryChatRepository) ClearHistory(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.contexts, sessionID)
	return nil
}

// ClearAll drops every session.
func (m *memoryChatRepository) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.contexts = make(map[string]*entity.ChatContext)
	return nil
}

// GetContext returns the full stored context of a session.
func (m *memoryChatRepository) GetContext(ctx context.Context, sessionID string) (*entity.ChatContext, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chatCtx, exists := m.contexts[sessionID]
	if !exists {
		return nil, fmt.Errorf("context not found for session %s", sessionID)
	}
	return chatCtx, nil
}
