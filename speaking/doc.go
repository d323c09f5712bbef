// Package speaking ranks the active characters of a group chat for one
// turn and partitions them into primary, secondary and silent roles.
//
// Score sums five independently bounded terms (volatility, mood push,
// topic relevance, relationship with the last speaker, and a recency
// penalty) plus a flat bonus when the message addresses the character by
// name. BuildQueue sorts the roster by score (stable on input order) and
// splits it: the top character is always primary, anyone else strictly
// above SecondaryThreshold speaks second, the rest stay silent.
//
// Scoring is pure. History the caller could not load is not an error; the
// TurnContext accessors fall back to documented defaults.
package speaking
