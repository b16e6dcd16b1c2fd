package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taxipark/config"
	"taxipark/pkg/logger"
	"taxipark/pkg/models"
	"taxipark/pkg/security"
	"taxipark/storage"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
	// Authenticate resolves a session cookie value to its driver.
	Authenticate(ctx context.Context, token string) (*models.Driver, *models.Session, error)
	Logout(ctx context.Context, token string) error
	CountVisit(ctx context.Context, session *models.Session) (int, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type authService struct {
	drivers  storage.IDriverStorage
	sessions storage.ISessionStorage
	log      logger.ILogger
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(cfg config.Config, stg storage.IStorage, log logger.ILogger) AuthService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &authService{
		drivers:  stg.Driver(),
		sessions: stg.Session(),
		log:      log,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	d, err := s.drivers.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if d == nil || !d.IsActive || !security.CheckPassword(d.PasswordHash, password) {
		s.log.Warning("failed login", logger.String("username", username))
		return nil, ErrInvalidCredentials
	}

	session := &models.Session{
		Token:     uuid.New(),
		DriverID:  d.ID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info("driver logged in", logger.Int64("driver_id", d.ID))
	return session, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.Driver, *models.Session, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil, nil, ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, ErrUnauthenticated
	}
	if session.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, id); err != nil {
			s.log.Warning("failed to drop expired session", logger.Error(err))
		}
		return nil, nil, ErrUnauthenticated
	}

	d, err := s.drivers.GetByID(ctx, session.DriverID)
	if err != nil {
		return nil, nil, err
	}
	if d == nil || !d.IsActive {
		return nil, nil, ErrUnauthenticated
	}
	return d, session, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, id)
}

func (s *authService) CountVisit(ctx context.Context, session *models.Session) (int, error) {
	return s.sessions.IncrementVisits(ctx, session.Token)
}

func (s *authService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("expired sessions purged", logger.Int64("count", n))
	}
	return n, nil
}
