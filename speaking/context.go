package speaking

import (
	"github.com/ccalde29/CHAIT-world-sub001/types"
)

// TurnContext carries everything one scoring pass needs: the incoming
// message plus the history the caller loaded before the turn. Missing
// records are not errors; the accessors below apply the documented
// defaults, so the defaulting rule lives in exactly one place.
type TurnContext struct {
	Message   string
	SessionID string
	UserID    string

	// LastSpeakerID is the character (or user) who produced the previous
	// message, for the relationship term.
	LastSpeakerID string

	// RecentSpeakers lists who produced the most recent responses in this
	// session, newest first. Only the first three entries matter to the
	// recency penalty.
	RecentSpeakers []string

	Moods         map[string]types.MoodState         // characterID -> state
	Sessions      map[string]types.SessionState      // characterID -> state
	Topics        map[string][]types.TopicEngagement // characterID -> history
	Relationships []types.RelationshipEdge

	keywords []string
	haveKeys bool
}

// Keywords returns the topical keywords of the message, extracting them on
// first use and caching for the rest of the turn.
func (tc *TurnContext) Keywords() []string {
	if !tc.haveKeys {
		tc.keywords = ExtractKeywords(tc.Message)
		tc.haveKeys = true
	}
	return tc.keywords
}

// MoodOf returns the character's mood state, defaulting to fresh neutral
// when no record exists.
func (tc *TurnContext) MoodOf(characterID string) types.MoodState {
	if s, ok := tc.Moods[characterID]; ok {
		return s.Normalize()
	}
	return types.NewMoodState()
}

// SessionOf returns the character's session participation record; the zero
// record (never spoke) when absent.
func (tc *TurnContext) SessionOf(characterID string) types.SessionState {
	if s, ok := tc.Sessions[characterID]; ok {
		return s
	}
	return types.SessionState{CharacterID: characterID, SessionID: tc.SessionID}
}

// TopicsOf returns the character's engagement history; nil means the
// character has no topic history at all, which scores the flat moderate
// default rather than the low one.
func (tc *TurnContext) TopicsOf(characterID string) []types.TopicEngagement {
	return tc.Topics[characterID]
}

// RelationshipWith returns the edge strength between the character and the
// last speaker, in either direction; 0 when no edge exists or nobody has
// spoken yet.
func (tc *TurnContext) RelationshipWith(characterID string) float64 {
	if tc.LastSpeakerID == "" || characterID == tc.LastSpeakerID {
		return 0
	}
	for _, e := range tc.Relationships {
		if e.Involves(characterID, tc.LastSpeakerID) {
			return clamp01(e.Strength)
		}
	}
	return 0
}

// MessagesSinceSpoke reports how many responses ago the character last
// spoke this session: 0 means it produced the most recent response. The
// boolean is false when the character has never spoken, no responses have
// occurred yet, or its last turn is beyond the tracked window.
func (tc *TurnContext) MessagesSinceSpoke(characterID string) (int, bool) {
	if len(tc.RecentSpeakers) == 0 {
		return 0, false
	}
	if tc.SessionOf(characterID).LastSpokeAt == nil {
		return 0, false
	}
	for i, id := range tc.RecentSpeakers {
		if id == characterID {
			return i, true
		}
	}
	return 0, false
}
