package types

import "time"

// Mood is a discrete emotional category a character can be in.
type Mood string

const (
	MoodNeutral   Mood = "neutral"
	MoodExcited   Mood = "excited"
	MoodContent   Mood = "content"
	MoodAnnoyed   Mood = "annoyed"
	MoodDefensive Mood = "defensive"
	MoodSad       Mood = "sad"
)

// AllMoods lists every mood in a fixed order. Used by the completeness
// check over the transition table and by property tests.
var AllMoods = []Mood{
	MoodNeutral,
	MoodExcited,
	MoodContent,
	MoodAnnoyed,
	MoodDefensive,
	MoodSad,
}

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	for _, known := range AllMoods {
		if m == known {
			return true
		}
	}
	return false
}

// Mood intensity bounds.
const (
	// NeutralRestingIntensity is where neutral settles when nothing is
	// pushing on it.
	NeutralRestingIntensity = 0.5

	// MoodFloor is the intensity below which any mood collapses back to
	// neutral at its resting intensity.
	MoodFloor = 0.4
)

// MoodState is one character's emotional state within one session.
type MoodState struct {
	Mood      Mood      `json:"mood"`
	Intensity float64   `json:"intensity"` // 0..1
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMoodState returns the state every character starts a session in.
func NewMoodState() MoodState {
	return MoodState{Mood: MoodNeutral, Intensity: NeutralRestingIntensity}
}

// Normalize clamps the intensity into [0,1] and repairs unknown moods back
// to neutral. State loaded from storage passes through here so a corrupt
// record degrades instead of propagating.
func (s MoodState) Normalize() MoodState {
	if !s.Mood.Valid() {
		s.Mood = MoodNeutral
		s.Intensity = NeutralRestingIntensity
		return s
	}
	if s.Intensity < 0 {
		s.Intensity = 0
	}
	if s.Intensity > 1 {
		s.Intensity = 1
	}
	return s
}

// TriggerType is a linguistic cue category detected in a user message.
type TriggerType string

const (
	TriggerDisagreement TriggerType = "disagreement"
	TriggerAgreement    TriggerType = "agreement"
	TriggerCompliment   TriggerType = "compliment"
	TriggerJoke         TriggerType = "joke"
	TriggerCriticism    TriggerType = "criticism"
	TriggerSadness      TriggerType = "sadness"
)

// AllTriggerTypes lists every trigger type in detection order. The order is
// load-bearing: ties between equally strong triggers resolve to the one
// detected first.
var AllTriggerTypes = []TriggerType{
	TriggerDisagreement,
	TriggerAgreement,
	TriggerCompliment,
	TriggerJoke,
	TriggerCriticism,
	TriggerSadness,
}

// Trigger is a detected cue. Strength is min(matched*0.2, 1.0) and the
// value is recomputed from the raw message every turn, never persisted.
type Trigger struct {
	Type            TriggerType `json:"type"`
	MatchedKeywords int         `json:"matched_keywords"`
	Strength        float64     `json:"strength"`
}
