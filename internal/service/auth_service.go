package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ccrt-portal/backend/config"
	"ccrt-portal/backend/internal/model"
	"ccrt-portal/backend/internal/repository"
	"ccrt-portal/backend/pkg/jwt"
	"ccrt-portal/backend/pkg/session"
)

const minPasswordLength = 8

// SessionStore is the durable session backend.
type SessionStore interface {
	Create(ctx context.Context, role session.Role, subjectID uint, username string) (*session.Session, error)
	Get(ctx context.Context, id string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

// Credentials presented at login. Admins use Username and Password,
// participants and BAAs use LoginID.
type Credentials struct {
	Username string
	Password string
	LoginID  string
}

// LoginResult a new session and the cookie value bound to it.
type LoginResult struct {
	Session *session.Session
	Token   string
}

// AuthService session authority.
type AuthService interface {
	// EnsureDefaultAdmin creates the configured admin when it does not exist.
	EnsureDefaultAdmin(ctx context.Context) error
	Login(ctx context.Context, role session.Role, cred Credentials) (*LoginResult, error)
	// Authenticate resolves a cookie value to its live session.
	Authenticate(ctx context.Context, token string) (*session.Session, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
}

type authService struct {
	cfg      *config.Config
	repo     *repository.Repository
	sessions SessionStore
	jwtMgr   *jwt.Manager
	logger   *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	sessions SessionStore,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		repo:     repo,
		sessions: sessions,
		jwtMgr:   jwtMgr,
		logger:   logger,
	}
}

func (s *authService) EnsureDefaultAdmin(ctx context.Context) error {
	username := s.cfg.Admin.DefaultUsername
	_, err := s.repo.Admin.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Admin.DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.Admin.Create(ctx, &model.Admin{Username: username, PasswordHash: string(hash)}); err != nil {
		return err
	}
	s.logger.Info("default admin created", zap.String("username", username))
	return nil
}

func (s *authService) Login(ctx context.Context, role session.Role, cred Credentials) (*LoginResult, error) {
	var (
		subjectID uint
		username  string
		err       error
	)
	switch role {
	case session.RoleAdmin:
		subjectID, username, err = s.verifyAdmin(ctx, cred)
	case session.RoleParticipant:
		subjectID, username, err = s.verifyParticipant(ctx, cred)
	case session.RoleBAA:
		subjectID, username, err = s.verifyBAA(ctx, cred)
	default:
		return nil, ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(ctx, role, subjectID, username)
	if err != nil {
		s.logger.Error("failed to create session", zap.Error(err))
		return nil, err
	}
	token, err := s.jwtMgr.Sign(sess.ID, string(sess.Role), sess.SubjectID, sess.ExpiresAt)
	if err != nil {
		s.logger.Error("failed to sign session cookie", zap.Error(err))
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, err
	}

	s.logger.Info("login", zap.String("role", string(role)), zap.Uint("subject_id", subjectID))
	return &LoginResult{Session: sess, Token: token}, nil
}

func (s *authService) verifyAdmin(ctx context.Context, cred Credentials) (uint, string, error) {
	if cred.Username == "" || cred.Password == "" {
		return 0, "", ErrInvalidCredentials
	}
	admin, err := s.repo.Admin.GetByUsername(ctx, cred.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, "", ErrInvalidCredentials
		}
		s.logger.Error("failed to load admin", zap.Error(err))
		return 0, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(cred.Password)); err != nil {
		return 0, "", ErrInvalidCredentials
	}
	return admin.ID, admin.Username, nil
}

func (s *authService) verifyParticipant(ctx context.Context, cred Credentials) (uint, string, error) {
	loginID := strings.TrimSpace(cred.LoginID)
	if loginID == "" {
		return 0, "", ErrInvalidCredentials
	}
	p, err := s.repo.Participant.GetByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, "", ErrInvalidCredentials
		}
		s.logger.Error("failed to load participant", zap.Error(err))
		return 0, "", err
	}
	return p.ID, p.LoginID, nil
}

func (s *authService) verifyBAA(ctx context.Context, cred Credentials) (uint, string, error) {
	loginID := strings.TrimSpace(cred.LoginID)
	if loginID == "" {
		return 0, "", ErrInvalidCredentials
	}
	b, err := s.repo.BAA.GetByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, "", ErrInvalidCredentials
		}
		s.logger.Error("failed to load baa", zap.Error(err))
		return 0, "", err
	}
	return b.ID, b.LoginID, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*session.Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.jwtMgr.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		s.logger.Error("failed to load session", zap.Error(err))
		return nil, err
	}
	return sess, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwtMgr.Parse(token)
	if err != nil {
		// nothing server-side to revoke for an unreadable or expired cookie
		return nil
	}
	return s.sessions.Delete(ctx, claims.ID)
}

func (s *authService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	admin, err := s.repo.Admin.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthenticated
		}
		s.logger.Error("failed to load admin", zap.Error(err))
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidOldPassword
	}
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.Admin.UpdatePasswordHash(ctx, username, string(hash)); err != nil {
		s.logger.Error("failed to update admin password", zap.Error(err))
		return err
	}
	s.logger.Info("admin password changed", zap.String("username", username))
	return nil
}
