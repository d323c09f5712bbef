package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	err := NewError(ErrInvalidInput, "session id is required")
	assert.Equal(t, "[INVALID_INPUT] session id is required", err.Error())
	assert.Equal(t, ErrInvalidInput, GetErrorCode(err))

	cause := errors.New("connection refused")
	wrapped := NewError(ErrStoreUnavailable, "store ping failed").WithCause(cause)
	assert.Contains(t, wrapped.Error(), "connection refused")
	assert.ErrorIs(t, wrapped, cause)

	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), GetErrorCode(nil))
}

func TestMoodValid(t *testing.T) {
	for _, m := range AllMoods {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, Mood("ecstatic").Valid())
	assert.False(t, Mood("").Valid())
}

func TestMoodStateNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   MoodState
		want MoodState
	}{
		{
			name: "valid state untouched",
			in:   MoodState{Mood: MoodExcited, Intensity: 0.8},
			want: MoodState{Mood: MoodExcited, Intensity: 0.8},
		},
		{
			name: "unknown mood collapses to neutral resting",
			in:   MoodState{Mood: "furious", Intensity: 0.9},
			want: MoodState{Mood: MoodNeutral, Intensity: NeutralRestingIntensity},
		},
		{
			name: "intensity clamped high",
			in:   MoodState{Mood: MoodSad, Intensity: 1.7},
			want: MoodState{Mood: MoodSad, Intensity: 1},
		},
		{
			name: "intensity clamped low",
			in:   MoodState{Mood: MoodContent, Intensity: -0.2},
			want: MoodState{Mood: MoodContent, Intensity: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestCharacterVolatility(t *testing.T) {
	assert.InDelta(t, DefaultTemperature, Character{}.Volatility(), 1e-9)
	assert.InDelta(t, 0.3, Character{Temperature: 0.3}.Volatility(), 1e-9)
	assert.InDelta(t, 1.0, Character{Temperature: 2.5}.Volatility(), 1e-9)
	assert.InDelta(t, DefaultTemperature, Character{Temperature: -1}.Volatility(), 1e-9)
}

func TestRelationshipEdgeInvolves(t *testing.T) {
	e := RelationshipEdge{FromID: "luna", ToID: "rex", Strength: 0.7}
	assert.True(t, e.Involves("luna", "rex"))
	assert.True(t, e.Involves("rex", "luna"))
	assert.False(t, e.Involves("luna", "sage"))
	assert.False(t, e.Involves("luna", "luna"))
}
