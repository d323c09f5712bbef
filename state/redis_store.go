package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ccalde29/CHAIT-world-sub001/types"
)

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	PoolSize  int    `yaml:"pool_size"`
	KeyPrefix string `yaml:"key_prefix"`
}

// RedisStore is a Redis-based Store implementation, suitable for
// distributed deployments where several chat frontends share one engine
// state. Mood records are JSON strings; session and topic records are
// hashes so the increments stay atomic server-side.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "chait:"
	}
	return &RedisStore{client: client, keyPrefix: prefix}, nil
}

// NewRedisStoreWithClient wraps an existing client. Used by tests running
// against miniredis and by callers that manage their own connection pool.
func NewRedisStoreWithClient(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "chait:"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStore) moodKey(sessionID, characterID string) string {
	return s.keyPrefix + "mood:" + sessionID + ":" + characterID
}

func (s *RedisStore) sessionKey(sessionID, characterID string) string {
	return s.keyPrefix + "sess:" + sessionID + ":" + characterID
}

func (s *RedisStore) topicKey(userID, characterID string) string {
	return s.keyPrefix + "topic:" + userID + ":" + characterID
}

func (s *RedisStore) topicAtKey(userID, characterID string) string {
	return s.keyPrefix + "topicat:" + userID + ":" + characterID
}

func (s *RedisStore) relKey(userID string) string {
	return s.keyPrefix + "rel:" + userID
}

// GetMoodState returns a character's mood in a session, or ErrNotFound.
func (s *RedisStore) GetMoodState(ctx context.Context, sessionID, characterID string) (types.MoodState, error) {
	raw, err := s.client.Get(ctx, s.moodKey(sessionID, characterID)).Result()
	if errors.Is(err, redis.Nil) {
		return types.MoodState{}, ErrNotFound
	}
	if err != nil {
		return types.MoodState{}, fmt.Errorf("failed to get mood state: %w", err)
	}
	var m types.MoodState
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return types.MoodState{}, fmt.Errorf("failed to decode mood state: %w", err)
	}
	return m, nil
}

// PutMoodState persists a character's mood for a session.
func (s *RedisStore) PutMoodState(ctx context.Context, sessionID, characterID string, m types.MoodState) error {
	if sessionID == "" || characterID == "" {
		return ErrInvalidInput
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode mood state: %w", err)
	}
	return s.client.Set(ctx, s.moodKey(sessionID, characterID), data, 0).Err()
}

// GetSessionState returns a character's participation record, or ErrNotFound.
func (s *RedisStore) GetSessionState(ctx context.Context, sessionID, characterID string) (types.SessionState, error) {
	fields, err := s.client.HGetAll(ctx, s.sessionKey(sessionID, characterID)).Result()
	if err != nil {
		return types.SessionState{}, fmt.Errorf("failed to get session state: %w", err)
	}
	if len(fields) == 0 {
		return types.SessionState{}, ErrNotFound
	}

	st := types.SessionState{CharacterID: characterID, SessionID: sessionID}
	if raw, ok := fields["messages"]; ok {
		st.MessagesThisSession, _ = strconv.Atoi(raw)
	}
	if raw, ok := fields["last_spoke_at"]; ok && raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			st.LastSpokeAt = &t
		}
	}
	return st, nil
}

// RecordSpeaking increments the response count and stamps LastSpokeAt in
// one pipelined round trip.
func (s *RedisStore) RecordSpeaking(ctx context.Context, sessionID, characterID string, at time.Time) error {
	if sessionID == "" || characterID == "" {
		return ErrInvalidInput
	}
	key := s.sessionKey(sessionID, characterID)
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, key, "messages", 1)
	pipe.HSet(ctx, key, "last_spoke_at", at.UTC().Format(time.RFC3339Nano))
	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record speaking: %w", err)
	}
	return nil
}

// TopicEngagements returns a character's engagement history for one user.
func (s *RedisStore) TopicEngagements(ctx context.Context, userID, characterID string) ([]types.TopicEngagement, error) {
	counts, err := s.client.HGetAll(ctx, s.topicKey(userID, characterID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get topic engagements: %w", err)
	}
	if len(counts) == 0 {
		return nil, nil
	}
	stamps, err := s.client.HGetAll(ctx, s.topicAtKey(userID, characterID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get topic timestamps: %w", err)
	}

	out := make([]types.TopicEngagement, 0, len(counts))
	for kw, raw := range counts {
		count, _ := strconv.Atoi(raw)
		te := types.TopicEngagement{
			CharacterID:     characterID,
			Keyword:         kw,
			EngagementCount: count,
		}
		if stamp, ok := stamps[kw]; ok {
			if t, err := time.Parse(time.RFC3339Nano, stamp); err == nil {
				te.LastDiscussedAt = t
			}
		}
		out = append(out, te)
	}
	return out, nil
}

// RecordTopicEngagement increments every keyword's count and stamps its
// last-discussed time.
func (s *RedisStore) RecordTopicEngagement(ctx context.Context, userID, characterID string, keywords []string, at time.Time) error {
	if userID == "" || characterID == "" {
		return ErrInvalidInput
	}
	if len(keywords) == 0 {
		return nil
	}
	countKey := s.topicKey(userID, characterID)
	stampKey := s.topicAtKey(userID, characterID)
	stamp := at.UTC().Format(time.RFC3339Nano)

	pipe := s.client.TxPipeline()
	for _, kw := range keywords {
		pipe.HIncrBy(ctx, countKey, kw, 1)
		pipe.HSet(ctx, stampKey, kw, stamp)
	}
	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record topic engagement: %w", err)
	}
	return nil
}

// Relationships returns every edge in the user's scope.
func (s *RedisStore) Relationships(ctx context.Context, userID string) ([]types.RelationshipEdge, error) {
	fields, err := s.client.HGetAll(ctx, s.relKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get relationships: %w", err)
	}
	out := make([]types.RelationshipEdge, 0, len(fields))
	for _, raw := range fields {
		var e types.RelationshipEdge
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue // skip corrupt entries, the rest stay usable
		}
		out = append(out, e)
	}
	return out, nil
}

// PutRelationship creates or replaces an edge.
func (s *RedisStore) PutRelationship(ctx context.Context, userID string, edge types.RelationshipEdge) error {
	if userID == "" || edge.FromID == "" || edge.ToID == "" {
		return ErrInvalidInput
	}
	data, err := json.Marshal(edge)
	if err != nil {
		return fmt.Errorf("failed to encode relationship: %w", err)
	}
	field := edge.FromID + "|" + edge.ToID
	return s.client.HSet(ctx, s.relKey(userID), field, data).Err()
}

// Ping checks if the store is healthy.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
