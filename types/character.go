package types

import "time"

// DefaultTemperature is assumed for characters that never set one.
const DefaultTemperature = 0.8

// Character is a conversational participant in a group chat session.
// Characters are loaded by the caller and never mutated by the engine;
// all per-turn state lives in MoodState / SessionState records.
type Character struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Persona     string  `json:"persona,omitempty"`
	Temperature float64 `json:"temperature"`         // 0..1, volatility / enthusiasm
	MaxTokens   int     `json:"max_response_tokens"` // response budget for the LLM call
}

// Volatility returns the character's temperature, falling back to
// DefaultTemperature when it was never configured.
func (c Character) Volatility() float64 {
	if c.Temperature <= 0 {
		return DefaultTemperature
	}
	if c.Temperature > 1 {
		return 1
	}
	return c.Temperature
}

// SessionState tracks one character's participation in one session.
// MessagesThisSession counts the responses the character actually produced;
// LastSpokeAt is nil until the character speaks for the first time.
type SessionState struct {
	CharacterID         string     `json:"character_id"`
	SessionID           string     `json:"session_id"`
	MessagesThisSession int        `json:"messages_this_session"`
	LastSpokeAt         *time.Time `json:"last_spoke_at,omitempty"`
}

// TopicEngagement records how often a character has discussed a keyword,
// scoped to one user.
type TopicEngagement struct {
	CharacterID     string    `json:"character_id"`
	Keyword         string    `json:"keyword"`
	EngagementCount int       `json:"engagement_count"`
	LastDiscussedAt time.Time `json:"last_discussed_at"`
}

// RelationshipEdge is the closeness between two participants (character or
// user), scoped to one user. Only the strength feeds the speaking score.
type RelationshipEdge struct {
	FromID   string  `json:"from_id"`
	ToID     string  `json:"to_id"`
	Strength float64 `json:"strength"` // 0..1
}

// Involves reports whether the edge connects the two given participants,
// in either direction.
func (e RelationshipEdge) Involves(a, b string) bool {
	return (e.FromID == a && e.ToID == b) || (e.FromID == b && e.ToID == a)
}
