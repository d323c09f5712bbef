// Package state provides the persistence collaborators of the turn-taking
// engine: mood, session-participation, topic-engagement and relationship
// records, behind one Store interface with memory, Redis and SQL backends.
//
// The engine treats missing records as "no history", never as an error;
// every Get returns ErrNotFound for absence and the caller applies the
// documented defaults. Write-backs (RecordSpeaking, RecordTopicEngagement)
// are at-most-once per responding character per turn; a retried write
// double-counts, so callers must not retry blindly.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/ccalde29/CHAIT-world-sub001/types"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrStoreClosed  = errors.New("store is closed")
	ErrInvalidInput = errors.New("invalid input")
)

// StoreType represents the type of storage backend.
type StoreType string

const (
	StoreTypeMemory   StoreType = "memory"
	StoreTypeRedis    StoreType = "redis"
	StoreTypeDatabase StoreType = "database"
)

// Store is the contract the orchestrator loads turn state through and
// writes results back to.
//
// Scoping: mood and session records are per (session, character); topic
// engagement and relationships are per (user, character).
type Store interface {
	// GetMoodState returns a character's mood in a session, or ErrNotFound.
	GetMoodState(ctx context.Context, sessionID, characterID string) (types.MoodState, error)

	// PutMoodState persists a character's mood for a session.
	PutMoodState(ctx context.Context, sessionID, characterID string, s types.MoodState) error

	// GetSessionState returns a character's participation record, or
	// ErrNotFound when it has not spoken this session.
	GetSessionState(ctx context.Context, sessionID, characterID string) (types.SessionState, error)

	// RecordSpeaking increments the character's response count and stamps
	// LastSpokeAt, creating the record when absent. Call exactly once per
	// character per turn in which it produced output.
	RecordSpeaking(ctx context.Context, sessionID, characterID string, at time.Time) error

	// TopicEngagements returns a character's full engagement history for
	// one user. An empty slice (with nil error) means no history.
	TopicEngagements(ctx context.Context, userID, characterID string) ([]types.TopicEngagement, error)

	// RecordTopicEngagement increments the engagement count for every
	// keyword (creating records at count 1) and stamps LastDiscussedAt.
	RecordTopicEngagement(ctx context.Context, userID, characterID string, keywords []string, at time.Time) error

	// Relationships returns every relationship edge in the user's scope.
	Relationships(ctx context.Context, userID string) ([]types.RelationshipEdge, error)

	// PutRelationship creates or replaces an edge.
	PutRelationship(ctx context.Context, userID string, edge types.RelationshipEdge) error

	// Ping checks whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend.
	Close() error
}
