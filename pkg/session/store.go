// Package session is the durable server-side session store. Sessions live in
// their own sqlite file so they survive restarts independently of the
// portal data.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ccrt-portal/backend/config"
	"ccrt-portal/backend/pkg/database"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Role of the authenticated principal.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleParticipant Role = "participant"
	RoleBAA         Role = "baa"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleParticipant, RoleBAA:
		return true
	}
	return false
}

// Session is an authenticated principal bound to a cookie.
type Session struct {
	ID        string
	Role      Role
	SubjectID uint
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// record is the row shape; times are unix seconds.
type record struct {
	ID        string `gorm:"primaryKey"`
	Role      string
	SubjectID uint
	Username  string
	CreatedAt int64 `gorm:"autoCreateTime:false"`
	ExpiresAt int64
}

func (record) TableName() string { return "sessions" }

func (r record) toSession() *Session {
	return &Session{
		ID:        r.ID,
		Role:      Role(r.Role),
		SubjectID: r.SubjectID,
		Username:  r.Username,
		CreatedAt: time.Unix(r.CreatedAt, 0).UTC(),
		ExpiresAt: time.Unix(r.ExpiresAt, 0).UTC(),
	}
}

// Store persists sessions.
type Store struct {
	db     *gorm.DB
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// Open opens (creating when needed) the session store at cfg.StorePath and
// applies its migrations.
func Open(cfg *config.SessionConfig, logger *zap.Logger) (*Store, error) {
	if err := database.EnsureDir(cfg.StorePath); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(cfg.StorePath)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get session store handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := runMigrations(sqlDB, logger); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logger.Info("session store ready", zap.String("path", cfg.StorePath))

	return &Store{db: db, ttl: cfg.TTL, logger: logger, now: time.Now}, nil
}

// Create stores a new session expiring after the configured TTL.
func (s *Store) Create(ctx context.Context, role Role, subjectID uint, username string) (*Session, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid session role %q", role)
	}

	now := s.now()
	rec := record{
		ID:        uuid.NewString(),
		Role:      string(role),
		SubjectID: subjectID,
		Username:  username,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return rec.toSession(), nil
}

// Get returns a live session. Expired rows are removed on sight.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	var rec record
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if rec.ExpiresAt <= s.now().Unix() {
		if err := s.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to remove expired session", zap.Error(err))
		}
		return nil, ErrNotFound
	}
	return rec.toSession(), nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&record{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired purges every expired session and returns how many were removed.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now().Unix()).Delete(&record{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
