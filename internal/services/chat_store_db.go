package services

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"aidagent_go_backend/internal/apperrors"
	"aidagent_go_backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatStoreDB is the persistence gateway for sessions, messages, user
// context and analytics rows. All identifiers are assigned by the store;
// callers never generate them.
type ChatStoreDB interface {
	CreateSessionInDB(userID uuid.UUID, title string) (*models.ChatSession, error)
	GetSessionsByUserIDFromDB(userID uuid.UUID) ([]models.ChatSession, error)
	GetSessionByIDFromDB(userID uuid.UUID, sessionID uint) (*models.ChatSession, error)
	RenameSessionInDB(userID uuid.UUID, sessionID uint, title string) error
	DeleteSessionFromDB(userID uuid.UUID, sessionID uint) error
	SaveMessageToDB(userID uuid.UUID, sessionID uint, role, content string) (*models.ChatMessage, error)
	GetMessagesBySessionIDFromDB(userID uuid.UUID, sessionID uint) ([]models.ChatMessage, error)
	GetOrCreateUserContextFromDB(userID uuid.UUID) (*models.UserContext, error)
	UpdateUserWalletsInDB(userID uuid.UUID, wallets []string) error
	SaveAIQueryToDB(userID uuid.UUID, query, response, queryType string) error
	GetAIQueriesByUserIDFromDB(userID uuid.UUID, limit int) ([]models.AIQuery, error)
}

// DefaultChatStore implements ChatStoreDB on top of GORM.
type DefaultChatStore struct {
	db *gorm.DB
}

func NewChatStoreDB(db *gorm.DB) ChatStoreDB {
	return &DefaultChatStore{db: db}
}

// wrapDBError converts GORM errors into the service error taxonomy. A
// missing backing table must stay distinguishable from other failures so
// the presentation layer can show setup instructions.
func wrapDBError(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(notFoundMsg)
	}
	msg := err.Error()
	if strings.Contains(msg, "SQLSTATE 42P01") ||
		strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "does not exist") {
		return apperrors.SchemaMissing(err)
	}
	return apperrors.Gateway(err)
}

func (s *DefaultChatStore) CreateSessionInDB(userID uuid.UUID, title string) (*models.ChatSession, error) {
	if title == "" {
		title = models.DefaultSessionTitle
	}
	session := &models.ChatSession{
		UserID: userID,
		Title:  title,
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, wrapDBError(err, "session not found")
	}
	return session, nil
}

func (s *DefaultChatStore) GetSessionsByUserIDFromDB(userID uuid.UUID) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	result := s.db.Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&sessions)
	if result.Error != nil {
		return nil, wrapDBError(result.Error, "session not found")
	}
	return sessions, nil
}

func (s *DefaultChatStore) GetSessionByIDFromDB(userID uuid.UUID, sessionID uint) (*models.ChatSession, error) {
	var session models.ChatSession
	result := s.db.Where("id = ? AND user_id = ?", sessionID, userID).First(&session)
	if result.Error != nil {
		return nil, wrapDBError(result.Error, "session not found")
	}
	return &session, nil
}

func (s *DefaultChatStore) RenameSessionInDB(userID uuid.UUID, sessionID uint, title string) error {
	result := s.db.Model(&models.ChatSession{}).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Update("title", title)
	if result.Error != nil {
		return wrapDBError(result.Error, "session not found")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("session not found")
	}
	return nil
}

// DeleteSessionFromDB removes a session and its messages in one transaction.
func (s *DefaultChatStore) DeleteSessionFromDB(userID uuid.UUID, sessionID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session models.ChatSession
		if err := tx.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", session.ID).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&session).Error
	})
	return wrapDBError(err, "session not found")
}

// SaveMessageToDB inserts the message, then bumps the owning session's
// updated_at. The message insert must be observed before the session
// update so recency-sorted session lists reflect new activity.
func (s *DefaultChatStore) SaveMessageToDB(userID uuid.UUID, sessionID uint, role, content string) (*models.ChatMessage, error) {
	if role != models.RoleUser && role != models.RoleAssistant {
		return nil, apperrors.Validation("message role must be \"user\" or \"assistant\"")
	}
	session, err := s.GetSessionByIDFromDB(userID, sessionID)
	if err != nil {
		return nil, err
	}
	message := &models.ChatMessage{
		SessionID: session.ID,
		Role:      role,
		Content:   content,
	}
	if err := s.db.Create(message).Error; err != nil {
		return nil, wrapDBError(err, "session not found")
	}
	err = s.db.Model(&models.ChatSession{}).
		Where("id = ?", session.ID).
		UpdateColumn("updated_at", time.Now()).Error
	if err != nil {
		return nil, wrapDBError(err, "session not found")
	}
	return message, nil
}

func (s *DefaultChatStore) GetMessagesBySessionIDFromDB(userID uuid.UUID, sessionID uint) ([]models.ChatMessage, error) {
	if _, err := s.GetSessionByIDFromDB(userID, sessionID); err != nil {
		return nil, err
	}
	var messages []models.ChatMessage
	result := s.db.Where("session_id = ?", sessionID).
		Order("created_at asc, id asc").
		Find(&messages)
	if result.Error != nil {
		return nil, wrapDBError(result.Error, "session not found")
	}
	return messages, nil
}

// GetOrCreateUserContextFromDB returns the user's context row, creating it
// with empty defaults on first access.
func (s *DefaultChatStore) GetOrCreateUserContextFromDB(userID uuid.UUID) (*models.UserContext, error) {
	userContext := &models.UserContext{
		UserID:      userID,
		Wallets:     "[]",
		Preferences: "{}",
	}
	result := s.db.Where(models.UserContext{UserID: userID}).FirstOrCreate(userContext)
	if result.Error != nil {
		return nil, wrapDBError(result.Error, "user context not found")
	}
	return userContext, nil
}

func (s *DefaultChatStore) UpdateUserWalletsInDB(userID uuid.UUID, wallets []string) error {
	if wallets == nil {
		wallets = []string{}
	}
	encoded, err := json.Marshal(wallets)
	if err != nil {
		return apperrors.Validation("wallet list is not serializable")
	}
	if _, err := s.GetOrCreateUserContextFromDB(userID); err != nil {
		return err
	}
	result := s.db.Model(&models.UserContext{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"wallets":    string(encoded),
			"updated_at": time.Now(),
		})
	return wrapDBError(result.Error, "user context not found")
}

func (s *DefaultChatStore) SaveAIQueryToDB(userID uuid.UUID, query, response, queryType string) error {
	if queryType == "" {
		queryType = "general"
	}
	record := &models.AIQuery{
		UserID:    userID,
		Query:     query,
		Response:  response,
		QueryType: queryType,
	}
	return wrapDBError(s.db.Create(record).Error, "query record not found")
}

func (s *DefaultChatStore) GetAIQueriesByUserIDFromDB(userID uuid.UUID, limit int) ([]models.AIQuery, error) {
	var queries []models.AIQuery
	result := s.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&queries)
	if result.Error != nil {
		return nil, wrapDBError(result.Error, "query record not found")
	}
	return queries, nil
}
