package services

import (
	"context"
	"strings"
	"sync"

	"aidagent_go_backend/internal/apperrors"
	"aidagent_go_backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// historyWindow bounds the prior messages sent as model context.
	// Older history is dropped, not summarized.
	historyWindow = 10

	// noCompletionFallback replaces an empty completion from the gateway.
	noCompletionFallback = "Sorry, I could not process your request."

	// queryErrorFallback is the only text the conversation shows when the
	// query pipeline fails; raw backend errors never reach it.
	queryErrorFallback = "I apologize, but I encountered an error processing your request. Please try again."

	analyticsQueryLimit = 50
)

// Identity resolves the current authenticated user.
type Identity interface {
	CurrentUser() (*models.User, error)
}

// AssistantService sequences session, message, user-context and completion
// operations against the persistence and completion gateways.
type AssistantService struct {
	store      ChatStoreDB
	completion CompletionClient
	identity   Identity
	log        zerolog.Logger

	inFlightMu sync.Mutex
	inFlight   map[uint]bool
}

func NewAssistantService(store ChatStoreDB, completion CompletionClient, identity Identity, log zerolog.Logger) *AssistantService {
	return &AssistantService{
		store:      store,
		completion: completion,
		identity:   identity,
		log:        log,
		inFlight:   make(map[uint]bool),
	}
}

// CreateSession inserts a new session for the current user. An empty title
// falls back to the default.
func (s *AssistantService) CreateSession(title string) (*models.ChatSession, error) {
	user, err := s.identity.CurrentUser()
	if err != nil {
		return nil, err
	}
	return s.store.CreateSessionInDB(user.ID, title)
}

// ListSessions returns the user's sessions, most recently active first.
// Unauthenticated callers get an empty sequence, not an error.
func (s *AssistantService) ListSessions() ([]models.ChatSession, error) {
	user, err := s.identity.CurrentUser()
	if err != nil {
		return []models.ChatSession{}, nil
	}
	return s.store.GetSessionsByUserIDFromDB(user.ID)
}

func (s *AssistantService) RenameSession(sessionID uint, title string) error {
	user, err := s.identity.CurrentUser()
	if err != nil {
		return err
	}
	if strings.TrimSpace(title) == "" {
		return apperrors.Validation("session title must not be empty")
	}
	return s.store.RenameSessionInDB(user.ID, sessionID, title)
}

func (s *AssistantService) DeleteSession(sessionID uint) error {
	user, err := s.identity.CurrentUser()
	if err != nil {
		return err
	}
	return s.store.DeleteSessionFromDB(user.ID, sessionID)
}

// ListMessages returns a session's messages in creation order. Sessions the
// caller does not own yield an empty sequence.
func (s *AssistantService) ListMessages(sessionID uint) ([]models.ChatMessage, error) {
	user, err := s.identity.CurrentUser()
	if err != nil {
		return []models.ChatMessage{}, nil
	}
	messages, err := s.store.GetMessagesBySessionIDFromDB(user.ID, sessionID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return []models.ChatMessage{}, nil
		}
		return nil, err
	}
	return messages, nil
}

// AppendMessage validates and stores a message, bumping the owning
// session's recency.
func (s *AssistantService) AppendMessage(sessionID uint, content, role string) (*models.ChatMessage, error) {
	user, err := s.identity.CurrentUser()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Validation("message content must not be empty")
	}
	return s.store.SaveMessageToDB(user.ID, sessionID, role, content)
}

// SendUserQuery runs the full query pipeline: append the user message,
// assemble bounded history plus the synthesized system prompt, obtain a
// completion, append the assistant reply and record analytics best-effort.
// At most one query runs per session at a time; a concurrent send on the
// same session is rejected.
func (s *AssistantService) SendUserQuery(ctx context.Context, sessionID uint, text string) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Validation("message content must not be empty")
	}
	if !s.beginQuery(sessionID) {
		return nil, apperrors.Validation("a query is already in flight for this session")
	}
	defer s.endQuery(sessionID)

	user, err := s.identity.CurrentUser()
	if err != nil {
		return nil, err
	}

	responseText := queryErrorFallback
	generated := false
	if _, err := s.store.SaveMessageToDB(user.ID, sessionID, models.RoleUser, text); err != nil {
		switch apperrors.KindOf(err) {
		case apperrors.KindUnauthenticated, apperrors.KindSchemaMissing, apperrors.KindNotFound, apperrors.KindValidationFailed:
			return nil, err
		}
		// The conversation channel only ever shows friendly text; degrade
		// to the fallback reply instead of surfacing the store error.
		s.log.Error().Err(err).Uint("session_id", sessionID).Msg("failed to save user message")
	} else {
		responseText, generated = s.generateResponse(ctx, user, sessionID, text)
	}

	assistantMessage, err := s.store.SaveMessageToDB(user.ID, sessionID, models.RoleAssistant, responseText)
	if err != nil {
		return nil, err
	}

	if generated {
		s.recordQuery(user.ID, text, responseText)
	}

	return assistantMessage, nil
}

// generateResponse performs history assembly and the completion call. It
// never returns an error; failures map to the fixed fallback text and the
// second return reports whether a completion round trip actually happened.
func (s *AssistantService) generateResponse(ctx context.Context, user *models.User, sessionID uint, text string) (string, bool) {
	userContext, err := s.store.GetOrCreateUserContextFromDB(user.ID)
	if err != nil {
		s.log.Error().Err(err).Uint("session_id", sessionID).Msg("failed to load user context")
		return queryErrorFallback, false
	}

	history, err := s.store.GetMessagesBySessionIDFromDB(user.ID, sessionID)
	if err != nil {
		s.log.Error().Err(err).Uint("session_id", sessionID).Msg("failed to load session history")
		return queryErrorFallback, false
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	messages := make([]CompletionMessage, 0, len(history)+2)
	messages = append(messages, CompletionMessage{Role: "system", Content: BuildSystemPrompt(userContext)})
	for _, msg := range history {
		messages = append(messages, CompletionMessage{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, CompletionMessage{Role: models.RoleUser, Content: text})

	responseText, err := s.completion.Complete(ctx, messages)
	if err != nil {
		s.log.Error().Err(err).Uint("session_id", sessionID).Msg("completion request failed")
		return queryErrorFallback, false
	}
	if strings.TrimSpace(responseText) == "" {
		return noCompletionFallback, true
	}
	return responseText, true
}

// recordQuery persists the analytics row from a detached goroutine.
// Failures are logged and never reach the caller.
func (s *AssistantService) recordQuery(userID uuid.UUID, query, response string) {
	go func() {
		if err := s.store.SaveAIQueryToDB(userID, query, response, "general"); err != nil {
			s.log.Warn().Err(err).Msg("failed to record ai query")
		}
	}()
}

// UpdateUserWallets upserts the user's wallet list and refreshes the
// context row's updated timestamp.
func (s *AssistantService) UpdateUserWallets(wallets []string) error {
	user, err := s.identity.CurrentUser()
	if err != nil {
		return err
	}
	return s.store.UpdateUserWalletsInDB(user.ID, wallets)
}

// GetQueryAnalytics returns the user's most recent query records.
func (s *AssistantService) GetQueryAnalytics() ([]models.AIQuery, error) {
	user, err := s.identity.CurrentUser()
	if err != nil {
		return nil, err
	}
	return s.store.GetAIQueriesByUserIDFromDB(user.ID, analyticsQueryLimit)
}

func (s *AssistantService) beginQuery(sessionID uint) bool {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()
	if s.inFlight[sessionID] {
		return false
	}
	s.inFlight[sessionID] = true
	return true
}

func (s *AssistantService) endQuery(sessionID uint) {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()
	delete(s.inFlight, sessionID)
}
