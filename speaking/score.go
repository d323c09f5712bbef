package speaking

import (
	"math"
	"strings"

	"github.com/ccalde29/CHAIT-world-sub001/mood"
	"github.com/ccalde29/CHAIT-world-sub001/types"
)

// Term weights. Each term is bounded on its own; the sum is clamped to
// [0,1] before the direct-address bonus, and again after it.
const (
	volatilityWeight   = 0.45
	moodWeight         = 0.3
	topicWeight        = 0.3
	relationshipWeight = 0.2

	// Topic-relevance inner values: the flat default for a character with
	// no history at all, the low value when history exists but nothing
	// matches, and the per-engagement scale for matches.
	topicNoHistory  = 0.3
	topicNoMatch    = 0.2
	topicCountScale = 0.1

	// AddressBonus is the flat boost for being called out by name.
	AddressBonus = 0.5
)

// recencyPenalties indexes by "responses since this character last spoke".
// Anything at index three or beyond costs nothing.
var recencyPenalties = [...]float64{-0.3, -0.2, -0.1}

// Score rates how likely one character is to respond to the current
// message, as the clamped sum of five bounded terms plus the
// direct-address bonus. Pure: missing history scores through documented
// defaults and nothing here can fail.
func Score(c types.Character, tc *TurnContext) float64 {
	state := tc.MoodOf(c.ID)

	score := c.Volatility() * volatilityWeight
	score += math.Abs(mood.SpeakingModifier(state.Mood, state.Intensity)) * moodWeight
	score += topicTerm(c, tc)
	score += tc.RelationshipWith(c.ID) * relationshipWeight
	score += recencyPenalty(c, tc)

	score = clamp01(score)
	if IsDirectlyAddressed(tc.Message, c.Name) {
		score += AddressBonus
	}
	return clamp01(score)
}

// topicTerm scores how much the message overlaps with what the character
// historically talks about.
func topicTerm(c types.Character, tc *TurnContext) float64 {
	history := tc.TopicsOf(c.ID)
	if len(history) == 0 {
		// No history at all: moderate and unbiased, so fresh characters
		// are neither favored nor buried.
		return topicNoHistory * topicWeight
	}

	byKeyword := make(map[string]int, len(history))
	for _, te := range history {
		byKeyword[te.Keyword] += te.EngagementCount
	}

	total := 0
	for _, kw := range tc.Keywords() {
		total += byKeyword[kw]
	}
	if total == 0 {
		return topicNoMatch * topicWeight
	}
	return math.Min(float64(total)*topicCountScale, 1.0) * topicWeight
}

// recencyPenalty discourages the same character from monopolizing the
// conversation: speaking again right after your own response costs -0.3,
// fading to nothing after three responses.
func recencyPenalty(c types.Character, tc *TurnContext) float64 {
	since, ok := tc.MessagesSinceSpoke(c.ID)
	if !ok || since >= len(recencyPenalties) {
		return 0
	}
	return recencyPenalties[since]
}

// IsDirectlyAddressed reports whether the message calls the character out
// by name: punctuation right after the name, an @-mention, a greeting, a
// question aimed at it, or an ask/tell construction.
func IsDirectlyAddressed(message, name string) bool {
	if name == "" {
		return false
	}
	msg := strings.ToLower(message)
	n := strings.ToLower(name)

	patterns := []string{
		n + ",",
		n + "?",
		n + "!",
		"@" + n,
		"hey " + n,
		"hi " + n,
		n + " what",
		n + " can",
		n + " do",
		"ask " + n,
		"tell " + n,
	}
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
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
