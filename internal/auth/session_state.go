package auth

import (
	"sync"

	"aidagent_go_backend/internal/apperrors"
	"aidagent_go_backend/internal/models"
)

// SessionState is the process-wide holder of the signed-in identity with an
// explicit Init/Teardown lifecycle. It is injected into the services that
// need an identity lookup instead of being read from ambient globals.
type SessionState struct {
	mu   sync.RWMutex
	user *models.User
}

func NewSessionState() *SessionState {
	return &SessionState{}
}

// Init installs the authenticated user.
func (s *SessionState) Init(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// Teardown clears the identity; subsequent lookups fail as unauthenticated.
func (s *SessionState) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

// CurrentUser returns the signed-in user or an Unauthenticated error.
func (s *SessionState) CurrentUser() (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, apperrors.Unauthenticated()
	}
	return s.user, nil
}
