package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccalde29/CHAIT-world-sub001/types"
)

func TestDetectTriggers_NoMatch(t *testing.T) {
	assert.Empty(t, DetectTriggers("the weather report for tomorrow"))
	assert.Empty(t, DetectTriggers(""))
}

func TestDetectTriggers_SingleType(t *testing.T) {
	triggers := DetectTriggers("lol that was good")
	require.Len(t, triggers, 1)
	assert.Equal(t, types.TriggerJoke, triggers[0].Type)
	assert.Equal(t, 1, triggers[0].MatchedKeywords)
	assert.InDelta(t, 0.2, triggers[0].Strength, 1e-9)
}

func TestDetectTriggers_CaseInsensitive(t *testing.T) {
	triggers := DetectTriggers("LOL! HILARIOUS!")
	require.Len(t, triggers, 1)
	assert.Equal(t, types.TriggerJoke, triggers[0].Type)
	assert.Equal(t, 2, triggers[0].MatchedKeywords)
	assert.InDelta(t, 0.4, triggers[0].Strength, 1e-9)
}

func TestDetectTriggers_MultipleTypes(t *testing.T) {
	// Both agreement and joke cues in one message.
	triggers := DetectTriggers("haha exactly, so true")
	require.Len(t, triggers, 2)

	byType := make(map[types.TriggerType]types.Trigger)
	for _, tr := range triggers {
		byType[tr.Type] = tr
	}
	require.Contains(t, byType, types.TriggerAgreement)
	require.Contains(t, byType, types.TriggerJoke)
	assert.Equal(t, 2, byType[types.TriggerAgreement].MatchedKeywords)
	assert.Equal(t, 1, byType[types.TriggerJoke].MatchedKeywords)
}

func TestDetectTriggers_StrengthCapsAtOne(t *testing.T) {
	// Six criticism phrases in one message caps at 1.0, not 1.2.
	msg := "terrible, awful, stupid, a bad idea, I hate it, useless"
	triggers := DetectTriggers(msg)
	require.Len(t, triggers, 1)
	assert.Equal(t, types.TriggerCriticism, triggers[0].Type)
	assert.Equal(t, 6, triggers[0].MatchedKeywords)
	assert.InDelta(t, 1.0, triggers[0].Strength, 1e-9)
}

func TestDetectTriggers_PreservesDetectionOrder(t *testing.T) {
	// Detection order is the tie-break: disagreement precedes sadness in
	// the fixed type order, so it must come out first.
	triggers := DetectTriggers("wrong, and it makes me sad")
	require.Len(t, triggers, 2)
	assert.Equal(t, types.TriggerDisagreement, triggers[0].Type)
	assert.Equal(t, types.TriggerSadness, triggers[1].Type)
}

func TestStrongestTrigger_TieKeepsFirst(t *testing.T) {
	triggers := []types.Trigger{
		{Type: types.TriggerAgreement, Strength: 0.4},
		{Type: types.TriggerJoke, Strength: 0.4},
	}
	assert.Equal(t, types.TriggerAgreement, strongestTrigger(triggers).Type)
}

func TestStrongestTrigger_PicksStrongest(t *testing.T) {
	triggers := []types.Trigger{
		{Type: types.TriggerAgreement, Strength: 0.2},
		{Type: types.TriggerCriticism, Strength: 0.6},
		{Type: types.TriggerJoke, Strength: 0.4},
	}
	assert.Equal(t, types.TriggerCriticism, strongestTrigger(triggers).Type)
}
