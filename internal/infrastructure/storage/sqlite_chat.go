package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/torqueup/assistant-api/internal/domain/entity"
	"github.com/torqueup/assistant-api/internal/domain/repository"
)

type sqliteChatRepository struct {
	db      *sql.DB
	maxSize int
}

// NewSQLiteChatRepository creates a SQLite-backed chat history repository.
func NewSQLiteChatRepository(dbPath string, maxContextSize int) (repository.ChatRepository, error) {
	if dbPath == "" {
		return nil, errors.New("db path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := createChatSchema(db); err != nil {
		return nil, err
	}

	return &sqliteChatRepository{db: db, maxSize: maxContextSize}, nil
}

func createChatSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	text TEXT,
	response TEXT,
	ts TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session_ts ON messages (session_id, ts);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveMessage persists one exchange and trims the session to maxSize.
func (s *sqliteChatRepository) SaveMessage(ctx context.Context, message entity.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO messages (id, session_id, text, response, ts) VALUES (?, ?, ?, ?, ?)`,
		message.ID, message.SessionID, message.Text, message.Response, message.Timestamp)
	if err != nil {
		tx.Rollback()
		return err
	}

	// Trim older exchanges beyond the session cap.
	_, err = tx.ExecContext(ctx, `
DELETE FROM messages
WHERE id IN (
  SELECT id FROM messages
  WHERE session_id = ?
  ORDER BY ts DESC
  LIMIT -1 OFFSET ?
)`, message.SessionID, s.maxSize)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// GetHistory returns the most recent limit exchanges, oldest first.
func (s *sqliteChatRepository) GetHistory(ctx context.Context, sessionID string, limit int) ([]entity.Message, error) {
	query := `SELECT id, session_id, text, response, ts FROM messages WHERE session_id = ? ORDER BY ts DESC`
	args := []any{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tmp []entity.Message
	for rows.Next() {
		var msg entity.Message
		var ts time.Time
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Text, &msg.Response, &ts); err != nil {
			return nil, err
		}
		msg.Timestamp = ts
		tmp = append(tmp, msg)
	}

	// Reverse to ascending so callers see oldest first.
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}

	return tmp, rows.Err()
}

// GetAllMessages returns exchanges across every session, newest first.
func (s *sqliteChatRepository) GetAllMessages(ctx context.Context, limit int) ([]entity.Message, error) {
	query := `SELECT id, session_id, text, response, ts FROM messages ORDER BY ts DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []entity.Message
	for rows.Next() {
		var msg entity.Message
		var ts time.Time
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Text, &msg.Response, &ts); err != nil {
			return nil, err
		}
		msg.Timestamp = ts
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// ClearHistory drops one session.
func (s *sqliteChatRepository) ClearHistory(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID)
	return err
}

// ClearAll drops every session.
func (s *sqliteChatRepository) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages`)
	return err
}

// GetContext returns the full stored context of a session.
func (s *sqliteChatRepository) GetContext(ctx context.Context, sessionID string) (*entity.ChatContext, error) {
	msgs, err := s.GetHistory(ctx, sessionID, 0)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("context not found for session %s", sessionID)
	}
	return &entity.ChatContext{
		SessionID: sessionID,
		Messages:  msgs,
		LastUsed:  msgs[len(msgs)-1].Timestamp,
	}, nil
}
