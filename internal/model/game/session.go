package game

import "time"

// Session captures a transient anonymous play session.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary is the player-visible view of a session. It never includes the
// active persona: the secret stays server-side.
type Summary struct {
	ID          string    `json:"id"`
	Round       int       `json:"round"`
	RoundActive bool      `json:"roundActive"`
	UsedNames   []string  `json:"usedNames"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RoundStart reports a freshly started round. The greeting is the first and
// only transcript entry at this point.
type RoundStart struct {
	Round    int     `json:"round"`
	Greeting Message `json:"greeting"`
}
