package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taxipark/pkg/models"
)

type sessionStore struct{ *Store }

func (s *sessionStore) Create(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drivers[sess.DriverID]; !ok {
		return errForeignKey
	}
	sess.CreatedAt = time.Now()
	s.sessions[sess.Token] = *sess
	return nil
}

func (s *sessionStore) Get(_ context.Context, token uuid.UUID) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *sessionStore) IncrementVisits(_ context.Context, token uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return 0, nil
	}
	sess.Visits++
	s.sessions[token] = sess
	return sess.Visits, nil
}

func (s *sessionStore) Delete(_ context.Context, token uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

func (s *sessionStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var n int64
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, token)
			n++
		}
	}
	return n, nil
}
