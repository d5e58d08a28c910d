package dto

import "time"

// ChatTurnEvent is published on the in-process bus after every chat turn.
type ChatTurnEvent struct {
	EventId         string    `json:"event_id"`
	SessionKey      string    `json:"session_key"`
	Outcome         string    `json:"outcome"`
	Query           string    `json:"query,omitempty"`
	TokenCount      int       `json:"token_count"`
	TopQuestionIds  []uint    `json:"top_question_ids,omitempty"`
	TopScore        float64   `json:"top_score,omitempty"`
	BlockedKeywords []string  `json:"blocked_keywords,omitempty"`
	BlockedDomains  []string  `json:"blocked_domains,omitempty"`
	DurationMs      int64     `json:"duration_ms"`
	OccurredAt      time.Time `json:"occurred_at"`
}
