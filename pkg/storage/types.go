package storage

import "time"

// MessageRole distinguishes a user prompt from the council's synthesized
// reply within a conversation's message history.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one turn of a conversation. A user message carries only
// Content; an assistant message is the serialized projection of the three
// deliberation stages and leaves Content empty.
type Message struct {
	Role      MessageRole       `json:"role"`
	Content   string            `json:"content,omitempty"`
	Stage1    []StageOneEntry   `json:"stage1,omitempty"`
	Stage2    []StageTwoEntry   `json:"stage2,omitempty"`
	Stage3    *StageThreeResult `json:"stage3,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// StageOneEntry is one model's independent response, as persisted in an
// assistant message's stage1 projection.
type StageOneEntry struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// StageTwoEntry is one evaluator model's peer ranking, as persisted in an
// assistant message's stage2 projection.
type StageTwoEntry struct {
	Model         string   `json:"model"`
	Ranking       string   `json:"ranking"`
	ParsedRanking []string `json:"parsedRanking"`
}

// StageThreeResult is the chairman's synthesized answer, as persisted in
// an assistant message's stage3 projection.
type StageThreeResult struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// Conversation is the persisted unit of storage: an ordered message
// history plus the generated title (spec §3, §10).
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
