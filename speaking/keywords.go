package speaking

import "strings"

// Keyword extraction limits. Tokens must be longer than minKeywordLen and
// outside the stopword set; at most maxKeywords survive, in message order.
const (
	minKeywordLen = 3
	maxKeywords   = 5
)

// stopwords are high-frequency function words that carry no topical signal.
// The list is heuristic; only the scoring contract around extraction
// matters, not the exact membership.
var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "again": {}, "also": {}, "always": {},
	"because": {}, "been": {}, "before": {}, "being": {}, "between": {},
	"both": {}, "could": {}, "does": {}, "doing": {}, "during": {},
	"each": {}, "even": {}, "every": {}, "from": {}, "have": {},
	"having": {}, "here": {}, "just": {}, "like": {}, "more": {},
	"most": {}, "much": {}, "never": {}, "only": {}, "other": {},
	"over": {}, "really": {}, "same": {}, "should": {}, "some": {},
	"something": {}, "still": {}, "such": {}, "than": {}, "that": {},
	"their": {}, "them": {}, "then": {}, "there": {}, "these": {},
	"they": {}, "thing": {}, "think": {}, "this": {}, "those": {},
	"through": {}, "very": {}, "were": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "will": {}, "with": {},
	"would": {}, "your": {},
}

// ExtractKeywords pulls up to five topical tokens out of a user message:
// lowercased, split on non-alphanumeric runs, longer than three characters,
// not a stopword, deduplicated, in message order. These are the keys both
// the topic-relevance score and the topic-engagement write-back use.
func ExtractKeywords(message string) []string {
	fields := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '\'')
	})

	seen := make(map[string]struct{}, maxKeywords)
	keywords := make([]string, 0, maxKeywords)
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if len(f) <= minKeywordLen {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		keywords = append(keywords, f)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
