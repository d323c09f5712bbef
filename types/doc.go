// Package types defines the shared data model for the turn-taking engine:
// characters, moods and mood state, triggers, per-session participation
// records, topic engagement and relationship edges, plus the structured
// error type used across packages.
//
// types is the lowest-level package with no internal dependencies, so the
// contracts shared by mood, speaking, state and turn all live here.
package types
