package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqueup/assistant-api/internal/domain/entity"
)

func TestChatHistoryRoundTrip(t *testing.T) {
	repo := NewMemoryChatRepository(20)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := repo.SaveMessage(ctx, entity.Message{
			ID:        fmt.Sprintf("m%d", i),
			SessionID: "s1",
			Text:      fmt.Sprintf("question %d", i),
			Response:  fmt.Sprintf("answer %d", i),
			Timestamp: time.Now(),
		})
		require.NoError(t, err)
	}

	history, err := repo.GetHistory(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "question 0", history[0].Text)
	assert.Equal(t, "question 2", history[2].Text)
}

func TestChatHistoryLimitReturnsMostRecent(t *testing.T) {
	repo := NewMemoryChatRepository(20)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.SaveMessage(ctx, entity.Message{
			ID:        fmt.Sprintf("m%d", i),
			SessionID: "s1",
			Text:      fmt.Sprintf("q%d", i),
			Timestamp: time.Now(),
		}))
	}

	history, err := repo.GetHistory(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "q3", history[0].Text)
	assert.Equal(t, "q4", history[1].Text)
}

func TestChatHistoryTrimsToMaxSize(t *testing.T) {
	repo := NewMemoryChatRepository(3)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, repo.SaveMessage(ctx, entity.Message{
			ID:        fmt.Sprintf("m%d", i),
			SessionID: "s1",
			Text:      fmt.Sprintf("q%d", i),
			Timestamp: time.Now(),
		}))
	}

	history, err := repo.GetHistory(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "q7", history[0].Text)
}

func TestChatSessionsAreIsolated(t *testing.T) {
	repo := NewMemoryChatRepository(20)
	ctx := context.Background()

	require.NoError(t, repo.SaveMessage(ctx, entity.Message{ID: "a", SessionID: "s1", Text: "one"}))
	require.NoError(t, repo.SaveMessage(ctx, entity.Message{ID: "b", SessionID: "s2", Text: "two"}))

	require.NoError(t, repo.ClearHistory(ctx, "s1"))

	h1, err := repo.GetHistory(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Empty(t, h1)

	h2, err := repo.GetHistory(ctx, "s2", 0)
	require.NoError(t, err)
	assert.Len(t, h2, 1)
}

func TestUnknownSessionHasEmptyHistory(t *testing.T) {
	repo := NewMemoryChatRepository(20)

	history, err := repo.GetHistory(context.Background(), "missing", 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}
