package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ccalde29/CHAIT-world-sub001/types"
)

// DatabaseConfig configures the SQL-backed store. The DSN is passed to
// whatever gorm dialector the caller opens; tests use the pure-Go sqlite
// driver.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// Database models. Composite primary keys mirror the engine's scoping:
// mood/session per (session, character), topics and relationships per user.
type moodRecord struct {
	SessionID   string    `gorm:"primaryKey;size:64"`
	CharacterID string    `gorm:"primaryKey;size:64"`
	Mood        string    `gorm:"size:16"`
	Intensity   float64
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
}

func (moodRecord) TableName() string { return "mood_states" }

type sessionRecord struct {
	SessionID   string `gorm:"primaryKey;size:64"`
	CharacterID string `gorm:"primaryKey;size:64"`
	Messages    int
	LastSpokeAt *time.Time
}

func (sessionRecord) TableName() string { return "session_states" }

type topicRecord struct {
	UserID          string `gorm:"primaryKey;size:64"`
	CharacterID     string `gorm:"primaryKey;size:64"`
	Keyword         string `gorm:"primaryKey;size:64"`
	EngagementCount int
	LastDiscussedAt time.Time
}

func (topicRecord) TableName() string { return "topic_engagements" }

type relationshipRecord struct {
	UserID   string `gorm:"primaryKey;size:64"`
	FromID   string `gorm:"primaryKey;size:64"`
	ToID     string `gorm:"primaryKey;size:64"`
	Strength float64
}

func (relationshipRecord) TableName() string { return "relationship_edges" }

// GormStore is a SQL-backed Store implementation for single-node
// deployments that already carry a relational database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the schema and wraps the connection.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(
		&moodRecord{},
		&sessionRecord{},
		&topicRecord{},
		&relationshipRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// GetMoodState returns a character's mood in a session, or ErrNotFound.
func (s *GormStore) GetMoodState(ctx context.Context, sessionID, characterID string) (types.MoodState, error) {
	var rec moodRecord
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND character_id = ?", sessionID, characterID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.MoodState{}, ErrNotFound
	}
	if err != nil {
		return types.MoodState{}, fmt.Errorf("failed to get mood state: %w", err)
	}
	return types.MoodState{
		Mood:      types.Mood(rec.Mood),
		Intensity: rec.Intensity,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

// PutMoodState upserts a character's mood for a session.
func (s *GormStore) PutMoodState(ctx context.Context, sessionID, characterID string, m types.MoodState) error {
	if sessionID == "" || characterID == "" {
		return ErrInvalidInput
	}
	rec := moodRecord{
		SessionID:   sessionID,
		CharacterID: characterID,
		Mood:        string(m.Mood),
		Intensity:   m.Intensity,
		UpdatedAt:   m.UpdatedAt,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "character_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"mood", "intensity", "updated_at"}),
	}).Create(&rec).Error
}

// GetSessionState returns a character's participation record, or ErrNotFound.
func (s *GormStore) GetSessionState(ctx context.Context, sessionID, characterID string) (types.SessionState, error) {
	var rec sessionRecord
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND character_id = ?", sessionID, characterID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.SessionState{}, ErrNotFound
	}
	if err != nil {
		return types.SessionState{}, fmt.Errorf("failed to get session state: %w", err)
	}
	return types.SessionState{
		CharacterID:         characterID,
		SessionID:           sessionID,
		MessagesThisSession: rec.Messages,
		LastSpokeAt:         rec.LastSpokeAt,
	}, nil
}

// RecordSpeaking increments the response count and stamps LastSpokeAt.
func (s *GormStore) RecordSpeaking(ctx context.Context, sessionID, characterID string, at time.Time) error {
	if sessionID == "" || characterID == "" {
		return ErrInvalidInput
	}
	t := at
	rec := sessionRecord{
		SessionID:   sessionID,
		CharacterID: characterID,
		Messages:    1,
		LastSpokeAt: &t,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "character_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"messages":      gorm.Expr("messages + 1"),
			"last_spoke_at": at,
		}),
	}).Create(&rec).Error
}

// TopicEngagements returns a character's engagement history for one user.
func (s *GormStore) TopicEngagements(ctx context.Context, userID, characterID string) ([]types.TopicEngagement, error) {
	var recs []topicRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND character_id = ?", userID, characterID).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get topic engagements: %w", err)
	}
	out := make([]types.TopicEngagement, 0, len(recs))
	for _, r := range recs {
		out = append(out, types.TopicEngagement{
			CharacterID:     r.CharacterID,
			Keyword:         r.Keyword,
			EngagementCount: r.EngagementCount,
			LastDiscussedAt: r.LastDiscussedAt,
		})
	}
	return out, nil
}

// RecordTopicEngagement increments every keyword's count, creating rows at
// count 1.
func (s *GormStore) RecordTopicEngagement(ctx context.Context, userID, characterID string, keywords []string, at time.Time) error {
	if userID == "" || characterID == "" {
		return ErrInvalidInput
	}
	if len(keywords) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, kw := range keywords {
			rec := topicRecord{
				UserID:          userID,
				CharacterID:     characterID,
				Keyword:         kw,
				EngagementCount: 1,
				LastDiscussedAt: at,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "character_id"}, {Name: "keyword"}},
				DoUpdates: clause.Assignments(map[string]any{
					"engagement_count":  gorm.Expr("engagement_count + 1"),
					"last_discussed_at": at,
				}),
			}).Create(&rec).Error
			if err != nil {
				return fmt.Errorf("failed to record topic %q: %w", kw, err)
			}
		}
		return nil
	})
}

// Relationships returns every edge in the user's scope.
func (s *GormStore) Relationships(ctx context.Context, userID string) ([]types.RelationshipEdge, error) {
	var recs []relationshipRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get relationships: %w", err)
	}
	out := make([]types.RelationshipEdge, 0, len(recs))
	for _, r := range recs {
		out = append(out, types.RelationshipEdge{
			FromID:   r.FromID,
			ToID:     r.ToID,
			Strength: r.Strength,
		})
	}
	return out, nil
}

// PutRelationship creates or replaces an edge.
func (s *GormStore) PutRelationship(ctx context.Context, userID string, edge types.RelationshipEdge) error {
	if userID == "" || edge.FromID == "" || edge.ToID == "" {
		return ErrInvalidInput
	}
	rec := relationshipRecord{
		UserID:   userID,
		FromID:   edge.FromID,
		ToID:     edge.ToID,
		Strength: edge.Strength,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "from_id"}, {Name: "to_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"strength"}),
	}).Create(&rec).Error
}

// Ping checks if the database is reachable.
func (s *GormStore) Ping(ctx context.Context) error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (s *GormStore) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
