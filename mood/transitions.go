package mood

import (
	"fmt"

	"github.com/ccalde29/CHAIT-world-sub001/types"
)

// Transition is one edge of the mood state machine: where a trigger sends a
// mood, and how strongly.
type Transition struct {
	Target   types.Mood
	Strength float64
}

// baselines is the intensity a mood starts at when entered fresh (before
// the trigger delta is added). Escalations ignore the baseline and build on
// the current intensity instead.
var baselines = map[types.Mood]float64{
	types.MoodNeutral:   0.5,
	types.MoodExcited:   0.6,
	types.MoodContent:   0.55,
	types.MoodAnnoyed:   0.6,
	types.MoodDefensive: 0.6,
	types.MoodSad:       0.55,
}

// transitions is the full mood state machine: every (mood, trigger) pair
// resolves to a target. A missing entry is a configuration defect, caught
// by ValidateTransitions at startup, never discovered mid-turn.
var transitions = map[types.Mood]map[types.TriggerType]Transition{
	types.MoodNeutral: {
		types.TriggerDisagreement: {types.MoodDefensive, 0.6},
		types.TriggerAgreement:    {types.MoodContent, 0.5},
		types.TriggerCompliment:   {types.MoodExcited, 0.6},
		types.TriggerJoke:         {types.MoodExcited, 0.5},
		types.TriggerCriticism:    {types.MoodAnnoyed, 0.7},
		types.TriggerSadness:      {types.MoodSad, 0.6},
	},
	types.MoodExcited: {
		types.TriggerDisagreement: {types.MoodAnnoyed, 0.5},
		types.TriggerAgreement:    {types.MoodExcited, 0.6},
		types.TriggerCompliment:   {types.MoodExcited, 0.7},
		types.TriggerJoke:         {types.MoodExcited, 0.5},
		types.TriggerCriticism:    {types.MoodDefensive, 0.7},
		types.TriggerSadness:      {types.MoodSad, 0.4},
	},
	types.MoodContent: {
		types.TriggerDisagreement: {types.MoodAnnoyed, 0.5},
		types.TriggerAgreement:    {types.MoodContent, 0.5},
		types.TriggerCompliment:   {types.MoodExcited, 0.6},
		types.TriggerJoke:         {types.MoodExcited, 0.5},
		types.TriggerCriticism:    {types.MoodDefensive, 0.6},
		types.TriggerSadness:      {types.MoodSad, 0.5},
	},
	types.MoodAnnoyed: {
		types.TriggerDisagreement: {types.MoodAnnoyed, 0.7},
		types.TriggerAgreement:    {types.MoodNeutral, 0.5},
		types.TriggerCompliment:   {types.MoodContent, 0.5},
		types.TriggerJoke:         {types.MoodNeutral, 0.5},
		types.TriggerCriticism:    {types.MoodDefensive, 0.8},
		types.TriggerSadness:      {types.MoodNeutral, 0.4},
	},
	types.MoodDefensive: {
		types.TriggerDisagreement: {types.MoodDefensive, 0.7},
		types.TriggerAgreement:    {types.MoodNeutral, 0.6},
		types.TriggerCompliment:   {types.MoodContent, 0.6},
		types.TriggerJoke:         {types.MoodNeutral, 0.5},
		types.TriggerCriticism:    {types.MoodDefensive, 0.8},
		types.TriggerSadness:      {types.MoodSad, 0.5},
	},
	types.MoodSad: {
		types.TriggerDisagreement: {types.MoodDefensive, 0.5},
		types.TriggerAgreement:    {types.MoodContent, 0.4},
		types.TriggerCompliment:   {types.MoodContent, 0.6},
		types.TriggerJoke:         {types.MoodContent, 0.5},
		types.TriggerCriticism:    {types.MoodSad, 0.6},
		types.TriggerSadness:      {types.MoodSad, 0.6},
	},
}

// Baseline returns the entry intensity for a mood.
func Baseline(m types.Mood) float64 {
	if b, ok := baselines[m]; ok {
		return b
	}
	return types.NeutralRestingIntensity
}

// LookupTransition resolves the (mood, trigger) edge. The second return is
// false only when the tables are incomplete, which ValidateTransitions is
// supposed to have ruled out.
func LookupTransition(from types.Mood, tt types.TriggerType) (Transition, bool) {
	row, ok := transitions[from]
	if !ok {
		return Transition{}, false
	}
	tr, ok := row[tt]
	return tr, ok
}

// ValidateTransitions verifies the mood state machine is total: every mood
// has a baseline and a defined transition for every trigger type, and every
// target is itself a known mood. Call it once at startup; a non-nil return
// is a build defect, not a runtime condition.
func ValidateTransitions() error {
	for _, m := range types.AllMoods {
		if _, ok := baselines[m]; !ok {
			return types.NewError(types.ErrTransitionMissing,
				fmt.Sprintf("mood %q has no baseline", m))
		}
		row, ok := transitions[m]
		if !ok {
			return types.NewError(types.ErrTransitionMissing,
				fmt.Sprintf("mood %q has no transition row", m))
		}
		for _, tt := range types.AllTriggerTypes {
			tr, ok := row[tt]
			if !ok {
				return types.NewError(types.ErrTransitionMissing,
					fmt.Sprintf("no transition for (%s, %s)", m, tt))
			}
			if !tr.Target.Valid() {
				return types.NewError(types.ErrTransitionMissing,
					fmt.Sprintf("transition (%s, %s) targets unknown mood %q", m, tt, tr.Target))
			}
		}
	}
	return nil
}
