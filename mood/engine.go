package mood

import (
	"math"

	"github.com/ccalde29/CHAIT-world-sub001/types"
)

// Tunables of the mood state machine. The decay rate is proportional, so
// intensity shrinks geometrically over trigger-free turns until it crosses
// types.MoodFloor and collapses back to neutral.
const (
	// DecayRate is the per-turn fraction of intensity lost when no trigger
	// fires.
	DecayRate = 0.1

	// VolatilityMultiplier scales a character's temperature into the
	// transition delta.
	VolatilityMultiplier = 1.2
)

// Next advances one character's mood by one incoming user message.
//
// With no triggers the mood decays: neutral rests at its resting intensity,
// any other mood loses DecayRate of its intensity and collapses to neutral
// once it falls under types.MoodFloor. With triggers, the strongest one
// (first-detected wins ties) drives the state machine: entering a new mood
// starts from that mood's baseline plus the delta, re-triggering the
// current mood escalates it from the current intensity.
//
// delta = transitionStrength * (volatility * VolatilityMultiplier) * triggerStrength
//
// The function is pure and total; out-of-range inputs are clamped, never
// rejected.
func Next(state types.MoodState, triggers []types.Trigger, volatility float64) types.MoodState {
	state = state.Normalize()
	volatility = clamp01(volatility)

	if len(triggers) == 0 {
		return decay(state)
	}

	t := strongestTrigger(triggers)
	tr, ok := LookupTransition(state.Mood, t.Type)
	if !ok {
		// Unreachable once ValidateTransitions passed; decay keeps the
		// turn alive if the tables were tampered with anyway.
		return decay(state)
	}

	delta := tr.Strength * (volatility * VolatilityMultiplier) * clamp01(t.Strength)

	next := types.MoodState{Mood: tr.Target}
	if tr.Target == state.Mood {
		next.Intensity = math.Min(state.Intensity+delta, 1.0)
	} else {
		next.Intensity = clamp01(Baseline(tr.Target) + delta)
	}
	return next
}

// decay applies one trigger-free turn. Neutral is a fixed point at the
// resting intensity.
func decay(state types.MoodState) types.MoodState {
	if state.Mood == types.MoodNeutral {
		return types.MoodState{Mood: types.MoodNeutral, Intensity: types.NeutralRestingIntensity}
	}
	decayed := state.Intensity - DecayRate*state.Intensity
	if decayed < types.MoodFloor {
		return types.MoodState{Mood: types.MoodNeutral, Intensity: types.NeutralRestingIntensity}
	}
	return types.MoodState{Mood: state.Mood, Intensity: decayed}
}

// SpeakingModifier maps a mood to its push on the speaking score. High
// arousal moods push a character forward, withdrawn ones hold it back.
// Every combination outside the three special cases is exactly zero.
func SpeakingModifier(m types.Mood, intensity float64) float64 {
	intensity = clamp01(intensity)
	switch {
	case m == types.MoodExcited && intensity > 0.6:
		return 0.3 * intensity
	case (m == types.MoodAnnoyed || m == types.MoodDefensive) && intensity > 0.7:
		return 0.2 * intensity
	case m == types.MoodSad && intensity > 0.6:
		return -0.2 * intensity
	default:
		return 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
