package mood

import (
	"math"
	"strings"

	"github.com/ccalde29/CHAIT-world-sub001/types"
)

// TriggerStrengthStep is the per-keyword contribution to trigger strength.
// Strength saturates at 1.0 after five matches.
const TriggerStrengthStep = 0.2

// triggerKeywords maps each trigger type to the phrases that fire it.
// Matching is case-insensitive substring containment against the whole
// message, so multi-word phrases work. The sets are heuristic; the scoring
// formulas around them are the contract, not the exact words.
var triggerKeywords = map[types.TriggerType][]string{
	types.TriggerDisagreement: {
		"disagree", "wrong", "no way", "not true", "nope", "incorrect",
		"doubt that", "don't think so",
	},
	types.TriggerAgreement: {
		"agree", "exactly", "absolutely", "so true", "good point",
		"you're right", "totally", "makes sense",
	},
	types.TriggerCompliment: {
		"love", "amazing", "awesome", "brilliant", "wonderful", "great job",
		"so smart", "impressive", "beautiful",
	},
	types.TriggerJoke: {
		"lol", "haha", "lmao", "rofl", "funny", "hilarious", "joke",
		"kidding",
	},
	types.TriggerCriticism: {
		"terrible", "awful", "stupid", "bad idea", "hate", "useless",
		"pathetic", "disappointing",
	},
	types.TriggerSadness: {
		"sad", "depressed", "lonely", "crying", "miss you", "heartbroken",
		"grief", "hopeless",
	},
}

// DetectTriggers scans a message for emotional cues and returns one Trigger
// per type that matched at least one keyword. The result preserves the
// fixed order of types.AllTriggerTypes; that order is the tie-break when
// two triggers end up equally strong. Deterministic, no side effects.
func DetectTriggers(message string) []types.Trigger {
	lowered := strings.ToLower(message)

	var triggers []types.Trigger
	for _, tt := range types.AllTriggerTypes {
		matched := 0
		for _, kw := range triggerKeywords[tt] {
			if strings.Contains(lowered, kw) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		triggers = append(triggers, types.Trigger{
			Type:            tt,
			MatchedKeywords: matched,
			Strength:        math.Min(float64(matched)*TriggerStrengthStep, 1.0),
		})
	}
	return triggers
}

// strongestTrigger returns the trigger with the highest strength. Ties keep
// the first-detected trigger, which is why callers must pass the slice in
// detection order.
func strongestTrigger(triggers []types.Trigger) types.Trigger {
	best := triggers[0]
	for _, t := range triggers[1:] {
		if t.Strength > best.Strength {
			best = t
		}
	}
	return best
}
