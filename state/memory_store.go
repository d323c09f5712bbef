package state

import (
	"context"
	"sync"
	"time"

	"github.com/ccalde29/CHAIT-world-sub001/types"
)

type sessionKey struct{ sessionID, characterID string }
type userKey struct{ userID, characterID string }
type topicKey struct {
	userID, characterID, keyword string
}
type edgeKey struct{ userID, fromID, toID string }

// MemoryStore is the in-process Store implementation. Suitable for
// development and testing; data is lost on restart.
type MemoryStore struct {
	moods    map[sessionKey]types.MoodState
	sessions map[sessionKey]types.SessionState
	topics   map[topicKey]types.TopicEngagement
	edges    map[edgeKey]types.RelationshipEdge

	mu     sync.RWMutex
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		moods:    make(map[sessionKey]types.MoodState),
		sessions: make(map[sessionKey]types.SessionState),
		topics:   make(map[topicKey]types.TopicEngagement),
		edges:    make(map[edgeKey]types.RelationshipEdge),
	}
}

// GetMoodState returns a character's mood in a session, or ErrNotFound.
func (s *MemoryStore) GetMoodState(ctx context.Context, sessionID, characterID string) (types.MoodState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return types.MoodState{}, ErrStoreClosed
	}
	m, ok := s.moods[sessionKey{sessionID, characterID}]
	if !ok {
		return types.MoodState{}, ErrNotFound
	}
	return m, nil
}

// PutMoodState persists a character's mood for a session.
func (s *MemoryStore) PutMoodState(ctx context.Context, sessionID, characterID string, m types.MoodState) error {
	if sessionID == "" || characterID == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.moods[sessionKey{sessionID, characterID}] = m
	return nil
}

// GetSessionState returns a character's participation record, or ErrNotFound.
func (s *MemoryStore) GetSessionState(ctx context.Context, sessionID, characterID string) (types.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return types.SessionState{}, ErrStoreClosed
	}
	st, ok := s.sessions[sessionKey{sessionID, characterID}]
	if !ok {
		return types.SessionState{}, ErrNotFound
	}
	return st, nil
}

// RecordSpeaking increments the response count and stamps LastSpokeAt,
// creating the record when absent.
func (s *MemoryStore) RecordSpeaking(ctx context.Context, sessionID, characterID string, at time.Time) error {
	if sessionID == "" || characterID == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	k := sessionKey{sessionID, characterID}
	st, ok := s.sessions[k]
	if !ok {
		st = types.SessionState{CharacterID: characterID, SessionID: sessionID}
	}
	st.MessagesThisSession++
	t := at
	st.LastSpokeAt = &t
	s.sessions[k] = st
	return nil
}

// TopicEngagements returns a character's engagement history for one user.
func (s *MemoryStore) TopicEngagements(ctx context.Context, userID, characterID string) ([]types.TopicEngagement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	var out []types.TopicEngagement
	for k, te := range s.topics {
		if k.userID == userID && k.characterID == characterID {
			out = append(out, te)
		}
	}
	return out, nil
}

// RecordTopicEngagement upserts an engagement record per keyword.
func (s *MemoryStore) RecordTopicEngagement(ctx context.Context, userID, characterID string, keywords []string, at time.Time) error {
	if userID == "" || characterID == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	for _, kw := range keywords {
		k := topicKey{userID, characterID, kw}
		te, ok := s.topics[k]
		if !ok {
			te = types.TopicEngagement{CharacterID: characterID, Keyword: kw}
		}
		te.EngagementCount++
		te.LastDiscussedAt = at
		s.topics[k] = te
	}
	return nil
}

// Relationships returns every edge in the user's scope.
func (s *MemoryStore) Relationships(ctx context.Context, userID string) ([]types.RelationshipEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	var out []types.RelationshipEdge
	for k, e := range s.edges {
		if k.userID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// PutRelationship creates or replaces an edge.
func (s *MemoryStore) PutRelationship(ctx context.Context, userID string, edge types.RelationshipEdge) error {
	if userID == "" || edge.FromID == "" || edge.ToID == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.edges[edgeKey{userID, edge.FromID, edge.ToID}] = edge
	return nil
}

// Ping checks if the store is healthy.
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// Close closes the store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
