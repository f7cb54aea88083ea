package services

import (
	"context"
	"sync"

	"aidagent_go_backend/internal/apperrors"
	"aidagent_go_backend/internal/models"
)

// sessionTitleLimit caps derived session titles at the first message's
// leading characters.
const sessionTitleLimit = 50

// Assistant is the orchestrator surface the chat state tracker drives.
type Assistant interface {
	CreateSession(title string) (*models.ChatSession, error)
	ListSessions() ([]models.ChatSession, error)
	RenameSession(sessionID uint, title string) error
	DeleteSession(sessionID uint) error
	ListMessages(sessionID uint) ([]models.ChatMessage, error)
	SendUserQuery(ctx context.Context, sessionID uint, text string) (*models.ChatMessage, error)
}

// ChatStateService tracks the session list and the current session for one
// signed-in user. Once sessions have been loaded it guarantees a current
// session always exists: an empty list triggers creation of a fresh one,
// and deleting the current session reselects the next most recent.
type ChatStateService struct {
	assistant Assistant

	mu       sync.Mutex
	sessions []models.ChatSession
	current  *models.ChatSession
}

func NewChatStateService(assistant Assistant) *ChatStateService {
	return &ChatStateService{assistant: assistant}
}

// LoadSessions fetches the user's sessions and selects the most recently
// active one as current, creating a session when none exist.
func (s *ChatStateService) LoadSessions() ([]models.ChatSession, *models.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reloadLocked(); err != nil {
		return nil, nil, err
	}
	return s.sessions, s.current, nil
}

func (s *ChatStateService) reloadLocked() error {
	sessions, err := s.assistant.ListSessions()
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		created, err := s.assistant.CreateSession("")
		if err != nil {
			return err
		}
		sessions = []models.ChatSession{*created}
	}
	s.sessions = sessions
	s.current = &s.sessions[0]
	return nil
}

// CurrentSession returns the selected session, or nil before the first load.
func (s *ChatStateService) CurrentSession() *models.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SwitchSession makes the given session current.
func (s *ChatStateService) SwitchSession(sessionID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].ID == sessionID {
			s.current = &s.sessions[i]
			return nil
		}
	}
	return apperrors.NotFound("session not found")
}

// NewSession creates a session and selects it.
func (s *ChatStateService) NewSession(title string) (*models.ChatSession, error) {
	session, err := s.assistant.CreateSession(title)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append([]models.ChatSession{*session}, s.sessions...)
	s.current = &s.sessions[0]
	return session, nil
}

// DeleteSession removes a session. When the current session is deleted the
// next session by recency becomes current; deleting the last session
// creates a fresh one so the caller is never left without a session.
func (s *ChatStateService) DeleteSession(sessionID uint) (*models.ChatSession, error) {
	if err := s.assistant.DeleteSession(sessionID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var currentID uint
	if s.current != nil {
		currentID = s.current.ID
	}

	kept := make([]models.ChatSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		if session.ID != sessionID {
			kept = append(kept, session)
		}
	}
	s.sessions = kept
	s.current = nil

	if currentID == sessionID || currentID == 0 {
		if err := s.reloadLocked(); err != nil {
			return nil, err
		}
		return s.current, nil
	}

	for i := range s.sessions {
		if s.sessions[i].ID == currentID {
			s.current = &s.sessions[i]
		}
	}
	return s.current, nil
}

// Send forwards the text to the orchestrator for the current session. The
// first message of a session also derives the session title from its
// content, truncated with an ellipsis.
func (s *ChatStateService) Send(ctx context.Context, text string) (*models.ChatMessage, error) {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current == nil {
		return nil, apperrors.Validation("no current session")
	}

	existing, err := s.assistant.ListMessages(current.ID)
	if err != nil {
		return nil, err
	}
	firstMessage := len(existing) == 0

	reply, err := s.assistant.SendUserQuery(ctx, current.ID, text)
	if err != nil {
		return nil, err
	}

	if firstMessage {
		title := text
		if len(title) > sessionTitleLimit {
			title = title[:sessionTitleLimit] + "..."
		}
		if err := s.assistant.RenameSession(current.ID, title); err == nil {
			s.mu.Lock()
			for i := range s.sessions {
				if s.sessions[i].ID == current.ID {
					s.sessions[i].Title = title
				}
			}
			s.mu.Unlock()
		}
	}

	return reply, nil
}
