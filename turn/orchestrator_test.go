package turn

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ccalde29/CHAIT-world-sub001/config"
	"github.com/ccalde29/CHAIT-world-sub001/state"
	"github.com/ccalde29/CHAIT-world-sub001/types"
)

// mockGenerator implements Generator with a function callback and records
// every request it saw.
type mockGenerator struct {
	mu       sync.Mutex
	requests []GenerateRequest
	fn       func(ctx context.Context, req GenerateRequest) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.fn != nil {
		return m.fn(ctx, req)
	}
	return "reply from " + req.Character.Name, nil
}

func (m *mockGenerator) requestFor(characterID string) (GenerateRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.Character.ID == characterID {
			return r, true
		}
	}
	return GenerateRequest{}, false
}

func newTestOrchestrator(t *testing.T, gen Generator) (*Orchestrator, *state.MemoryStore) {
	t.Helper()
	store := state.NewMemoryStore()
	o, err := NewOrchestrator(store, gen, config.Default().Engine, zap.NewNop())
	require.NoError(t, err)
	return o, store
}

func rosterOf(names ...string) []types.Character {
	chars := make([]types.Character, len(names))
	for i, n := range names {
		chars[i] = types.Character{ID: "id-" + n, Name: n, Temperature: 0.8}
	}
	return chars
}

func TestNewOrchestrator_RequiresCollaborators(t *testing.T) {
	_, err := NewOrchestrator(nil, &mockGenerator{}, config.Default().Engine, nil)
	assert.Equal(t, types.ErrInvalidInput, types.GetErrorCode(err))

	_, err = NewOrchestrator(state.NewMemoryStore(), nil, config.Default().Engine, nil)
	assert.Equal(t, types.ErrInvalidInput, types.GetErrorCode(err))
}

func TestRunTurn_RejectsEmptyRoster(t *testing.T) {
	o, _ := newTestOrchestrator(t, &mockGenerator{})
	_, err := o.RunTurn(context.Background(), TurnInput{
		SessionID: "s1", UserID: "u1", Message: "hello friends",
	})
	assert.Equal(t, types.ErrNoActiveCharacters, types.GetErrorCode(err))
}

func TestRunTurn_RejectsMissingSessionOrMessage(t *testing.T) {
	o, _ := newTestOrchestrator(t, &mockGenerator{})
	_, err := o.RunTurn(context.Background(), TurnInput{
		UserID: "u1", Message: "hello", Characters: rosterOf("Mira"),
	})
	assert.Equal(t, types.ErrInvalidInput, types.GetErrorCode(err))

	_, err = o.RunTurn(context.Background(), TurnInput{
		SessionID: "s1", UserID: "u1", Characters: rosterOf("Mira"),
	})
	assert.Equal(t, types.ErrInvalidInput, types.GetErrorCode(err))
}

func TestRunTurn_SingleCharacter(t *testing.T) {
	gen := &mockGenerator{}
	o, store := newTestOrchestrator(t, gen)

	res, err := o.RunTurn(context.Background(), TurnInput{
		SessionID:  "s1",
		UserID:     "u1",
		Message:    "tell me about your day",
		Characters: rosterOf("Mira"),
	})
	require.NoError(t, err)
	require.Len(t, res.Responses, 1)
	assert.Equal(t, RolePrimary, res.Responses[0].Role)
	assert.Equal(t, "reply from Mira", res.Responses[0].Text)
	assert.NotEmpty(t, res.TurnID)
	assert.False(t, res.Responses[0].Fallback)

	// The speaker's participation was recorded exactly once.
	ss, err := store.GetSessionState(context.Background(), "s1", "id-Mira")
	require.NoError(t, err)
	assert.Equal(t, 1, ss.MessagesThisSession)
	require.NotNil(t, ss.LastSpokeAt)
}

func TestRunTurn_MoodUpdatedBeforeScoring(t *testing.T) {
	gen := &mockGenerator{}
	o, store := newTestOrchestrator(t, gen)

	res, err := o.RunTurn(context.Background(), TurnInput{
		SessionID:  "s1",
		UserID:     "u1",
		Message:    "that is a terrible and useless plan",
		Characters: rosterOf("Mira"),
	})
	require.NoError(t, err)

	// Criticism from neutral lands on annoyed; the result and the store
	// both carry the post-message mood.
	got := res.Moods["id-Mira"]
	assert.Equal(t, types.MoodAnnoyed, got.Mood)

	stored, err := store.GetMoodState(context.Background(), "s1", "id-Mira")
	require.NoError(t, err)
	assert.Equal(t, types.MoodAnnoyed, stored.Mood)
	assert.InDelta(t, got.Intensity, stored.Intensity, 1e-9)

	// The queue ranked the character on the updated mood.
	assert.Equal(t, got, res.Queue.Primary.MoodState)
}

func TestRunTurn_DirectAddressPicksPrimary(t *testing.T) {
	gen := &mockGenerator{}
	o, _ := newTestOrchestrator(t, gen)

	chars := []types.Character{
		{ID: "a", Name: "Astra", Temperature: 0.9},
		{ID: "b", Name: "Bob", Temperature: 0.3},
	}
	res, err := o.RunTurn(context.Background(), TurnInput{
		SessionID:  "s1",
		UserID:     "u1",
		Message:    "Bob, what do you think?",
		Characters: chars,
	})
	require.NoError(t, err)
	assert.Equal(t, "b", res.Queue.Primary.Character.ID)
	assert.Equal(t, "b", res.Responses[0].CharacterID)
}

func TestRunTurn_PrimaryFailureUsesFallback(t *testing.T) {
	gen := &mockGenerator{
		fn: func(_ context.Context, req GenerateRequest) (string, error) {
			return "", errors.New("provider unavailable")
		},
	}
	o, _ := newTestOrchestrator(t, gen)

	res, err := o.RunTurn(context.Background(), TurnInput{
		SessionID:  "s1",
		UserID:     "u1",
		Message:    "anyone there?",
		Characters: rosterOf("Mira"),
	})
	require.NoError(t, err, "a failed primary must not abort the turn")
	require.Len(t, res.Responses, 1)
	assert.True(t, res.Responses[0].Fallback)
	assert.Equal(t, config.Default().Engine.FallbackLine, res.Responses[0].Text)
}

// excitedRoster returns characters whose scores clear the secondary
// threshold: high temperature plus a hot mood seeded in the store.
func excitedRoster(t *testing.T, store *state.MemoryStore, names ...string) []types.Character {
	t.Helper()
	chars := make([]types.Character, len(names))
	for i, n := range names {
		chars[i] = types.Character{ID: "id-" + n, Name: n, Temperature: 1.0}
		require.NoError(t, store.PutMoodState(context.Background(), "s1", "id-"+n,
			types.MoodState{Mood: types.MoodExcited, Intensity: 0.95}))
	}
	return chars
}

func TestRunTurn_SecondariesRespondAfterPrimary(t *testing.T) {
	gen := &mockGenerator{}
	o, store := newTestOrchestrator(t, gen)
	chars := excitedRoster(t, store, "Ada", "Bea", "Cal")

	res, err := o.RunTurn(context.Background(), TurnInput{
		SessionID:  "s1",
		UserID:     "u1",
		Message:    "big news about the band tour",
		Characters: chars,
	})
	require.NoError(t, err)

	// An agreement-free message decays the seeded mood slightly; scores
	// stay at 0.45 + |0.3*I|*0.3 + 0.09 > 0.6, so everyone speaks.
	require.Len(t, res.Responses, 3)
	assert.Equal(t, RolePrimary, res.Responses[0].Role)
	assert.Equal(t, RoleSecondary, res.Responses[1].Role)
	assert.Equal(t, RoleSecondary, res.Responses[2].Role)

	// Secondary voices see what the primary said; the primary does not.
	primaryReq, ok := gen.requestFor(res.Responses[0].CharacterID)
	require.True(t, ok)
	assert.Empty(t, primaryReq.PrimaryResponse)

	secondReq, ok := gen.requestFor(res.Responses[1].CharacterID)
	require.True(t, ok)
	assert.Equal(t, res.Responses[0].Text, secondReq.PrimaryResponse)

	// Delays stagger per index.
	delay := config.Default().Engine.SecondaryDelay
	assert.Equal(t, time.Duration(0), res.Responses[0].Delay)
	assert.Equal(t, delay, res.Responses[1].Delay)
	assert.Equal(t, 2*delay, res.Responses[2].Delay)
}

func TestRunTurn_SecondaryFailureIsIsolated(t *testing.T) {
	gen := &mockGenerator{
		fn: func(_ context.Context, req GenerateRequest) (string, error) {
			if req.Character.Name == "Bea" {
				return "", errors.New("timeout contacting provider")
			}
			return "reply from " + req.Character.Name, nil
		},
	}
	o, store := newTestOrchestrator(t, gen)
	chars := excitedRoster(t, store, "Ada", "Bea", "Cal")

	res, err := o.RunTurn(context.Background(), TurnInput{
		SessionID:  "s1",
		UserID:     "u1",
		Message:    "big news about the band tour",
		Characters: chars,
	})
	require.NoError(t, err, "one failed secondary must not abort the turn")
	require.Len(t, res.Responses, 2, "the failed voice is simply omitted")
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "id-Bea", res.Skipped[0].CharacterID)
	assert.Equal(t, RoleSecondary, res.Skipped[0].Role)

	// The skipped character must not get a participation write-back.
	_, err = store.GetSessionState(context.Background(), "s1", "id-Bea")
	assert.ErrorIs(t, err, state.ErrNotFound)
}

func TestRunTurn_MaxSecondaryCap(t *testing.T) {
	gen := &mockGenerator{}
	store := state.NewMemoryStore()
	cfg := config.Default().Engine
	cfg.MaxSecondary = 1
	o, err := NewOrchestrator(store, gen, cfg, zap.NewNop())
	require.NoError(t, err)

	chars := excitedRoster(t, store, "Ada", "Bea", "Cal", "Dee")
	res, err := o.RunTurn(context.Background(), TurnInput{
		SessionID:  "s1",
		UserID:     "u1",
		Message:    "big news about the band tour",
		Characters: chars,
	})
	require.NoError(t, err)
	assert.Len(t, res.Responses, 2, "primary plus exactly one secondary")
}

func TestRunTurn_TopicWriteBackOnlyForSpeakers(t *testing.T) {
	gen := &mockGenerator{}
	o, store := newTestOrchestrator(t, gen)

	chars := []types.Character{
		{ID: "talk", Name: "Talk", Temperature: 1.0},
		{ID: "quiet", Name: "Quiet", Temperature: 0.1},
	}
	_, err := o.RunTurn(context.Background(), TurnInput{
		SessionID:  "s1",
		UserID:     "u1",
		Message:    "thoughts on astronomy tonight",
		Characters: chars,
	})
	require.NoError(t, err)

	tes, err := store.TopicEngagements(context.Background(), "u1", "talk")
	require.NoError(t, err)
	assert.NotEmpty(t, tes, "the speaker gains topic history")

	tes, err = store.TopicEngagements(context.Background(), "u1", "quiet")
	require.NoError(t, err)
	assert.Empty(t, tes, "silent characters gain nothing")
}

func TestRunTurn_SerializesTurnsPerSession(t *testing.T) {
	var inFlight, maxInFlight int32
	var mu sync.Mutex

	gen := &mockGenerator{
		fn: func(_ context.Context, req GenerateRequest) (string, error) {
			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			inFlight--
			mu.Unlock()
			return "ok", nil
		},
	}
	o, _ := newTestOrchestrator(t, gen)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := o.RunTurn(context.Background(), TurnInput{
				SessionID:  "same-session",
				UserID:     "u1",
				Message:    "quick question for the group",
				Characters: rosterOf("Mira"),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.EqualValues(t, 1, maxInFlight, "turns in one session never overlap")
}

func TestRunTurn_MoodHintReachesGenerator(t *testing.T) {
	gen := &mockGenerator{}
	o, store := newTestOrchestrator(t, gen)
	require.NoError(t, store.PutMoodState(context.Background(), "s1", "id-Mira",
		types.MoodState{Mood: types.MoodSad, Intensity: 0.9}))

	_, err := o.RunTurn(context.Background(), TurnInput{
		SessionID:  "s1",
		UserID:     "u1",
		Message:    "quiet evening around here",
		Characters: rosterOf("Mira"),
	})
	require.NoError(t, err)

	req, ok := gen.requestFor("id-Mira")
	require.True(t, ok)
	assert.Contains(t, req.MoodHint, "Mira")
}
