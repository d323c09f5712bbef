package speaking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords_Basic(t *testing.T) {
	got := ExtractKeywords("I started learning guitar and music theory")
	assert.Equal(t, []string{"started", "learning", "guitar", "music", "theory"}, got)
}

func TestExtractKeywords_DropsShortAndStopwords(t *testing.T) {
	got := ExtractKeywords("what do you think about cats")
	// "what"/"think"/"about" are stopwords, "do"/"you" too short.
	assert.Equal(t, []string{"cats"}, got)
}

func TestExtractKeywords_CapsAtFive(t *testing.T) {
	got := ExtractKeywords("dragons wizards castles knights quests taverns scrolls")
	assert.Len(t, got, 5)
	assert.Equal(t, []string{"dragons", "wizards", "castles", "knights", "quests"}, got)
}

func TestExtractKeywords_Deduplicates(t *testing.T) {
	got := ExtractKeywords("guitar guitar GUITAR")
	assert.Equal(t, []string{"guitar"}, got)
}

func TestExtractKeywords_EmptyMessage(t *testing.T) {
	assert.Empty(t, ExtractKeywords(""))
	assert.Empty(t, ExtractKeywords("so do we"))
}

func TestExtractKeywords_StripsPunctuation(t *testing.T) {
	got := ExtractKeywords("Pizza, tacos... and ramen!")
	assert.Equal(t, []string{"pizza", "tacos", "ramen"}, got)
}
