package entity

import "time"

// ConversationTurn is one prior chat turn as the caller reports it. The
// isUser casing matches the front-end payload.
type ConversationTurn struct {
	Text   string `json:"text"`
	IsUser bool   `json:"isUser"`
}

// Message is one stored chat exchange: the customer text and the assistant
// reply produced for it.
type Message struct {
	ID        string
	SessionID string
	Text      string
	Response  string
	Timestamp time.Time
}

// ChatContext groups the stored history of one session.
type ChatContext struct {
	SessionID string
	Messages  []Message
	LastUsed  time.Time
}
