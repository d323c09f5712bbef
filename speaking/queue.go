package speaking

import (
	"sort"

	"github.com/ccalde29/CHAIT-world-sub001/types"
)

// SecondaryThreshold is the score a non-primary character must strictly
// exceed to speak as a secondary voice this turn.
const SecondaryThreshold = 0.6

// ScoredCharacter pairs a character with the mood and score used to rank
// it this turn. Ephemeral: rebuilt from scratch every turn, never stored.
type ScoredCharacter struct {
	Character types.Character `json:"character"`
	MoodState types.MoodState `json:"mood_state"`
	Score     float64         `json:"score"`
}

// Queue is the three-way speaking partition for one turn. Primary always
// exists when at least one character was scored; Secondary is ordered by
// descending score; Silent holds everyone else, also descending, for
// logging and UI display.
type Queue struct {
	Primary   ScoredCharacter   `json:"primary"`
	Secondary []ScoredCharacter `json:"secondary"`
	Silent    []ScoredCharacter `json:"silent"`
}

// Speakers returns primary plus secondary in speaking order, the
// characters that actually produce a response this turn.
func (q Queue) Speakers() []ScoredCharacter {
	out := make([]ScoredCharacter, 0, 1+len(q.Secondary))
	out = append(out, q.Primary)
	return append(out, q.Secondary...)
}

// BuildQueue scores every active character independently and partitions
// the roster. The sort is stable on the input order, so equal scores rank
// deterministically in roster order. The second return is false
// when the roster is empty, in which case the queue is meaningless and the
// caller should have rejected the turn already.
func BuildQueue(characters []types.Character, tc *TurnContext) (Queue, bool) {
	if len(characters) == 0 {
		return Queue{}, false
	}

	scored := make([]ScoredCharacter, len(characters))
	for i, c := range characters {
		scored[i] = ScoredCharacter{
			Character: c,
			MoodState: tc.MoodOf(c.ID),
			Score:     Score(c, tc),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	q := Queue{Primary: scored[0]}
	for _, sc := range scored[1:] {
		if sc.Score > SecondaryThreshold {
			q.Secondary = append(q.Secondary, sc)
		} else {
			q.Silent = append(q.Silent, sc)
		}
	}
	return q, true
}
