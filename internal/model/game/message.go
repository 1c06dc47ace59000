package game

import "time"

// Roles a transcript entry can carry.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of the round transcript.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
