package services_test

import (
	"context"

	"aidagent_go_backend/internal/models"
	"aidagent_go_backend/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockChatStoreDB struct {
	mock.Mock
}

func (m *MockChatStoreDB) CreateSessionInDB(userID uuid.UUID, title string) (*models.ChatSession, error) {
	args := m.Called(userID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

func (m *MockChatStoreDB) GetSessionsByUserIDFromDB(userID uuid.UUID) ([]models.ChatSession, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatSession), args.Error(1)
}

func (m *MockChatStoreDB) GetSessionByIDFromDB(userID uuid.UUID, sessionID uint) (*models.ChatSession, error) {
	args := m.Called(userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

func (m *MockChatStoreDB) RenameSessionInDB(userID uuid.UUID, sessionID uint, title string) error {
	args := m.Called(userID, sessionID, title)
	return args.Error(0)
}

func (m *MockChatStoreDB) DeleteSessionFromDB(userID uuid.UUID, sessionID uint) error {
	args := m.Called(userID, sessionID)
	return args.Error(0)
}

func (m *MockChatStoreDB) SaveMessageToDB(userID uuid.UUID, sessionID uint, role, content string) (*models.ChatMessage, error) {
	args := m.Called(userID, sessionID, role, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockChatStoreDB) GetMessagesBySessionIDFromDB(userID uuid.UUID, sessionID uint) ([]models.ChatMessage, error) {
	args := m.Called(userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

func (m *MockChatStoreDB) GetOrCreateUserContextFromDB(userID uuid.UUID) (*models.UserContext, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserContext), args.Error(1)
}

func (m *MockChatStoreDB) UpdateUserWalletsInDB(userID uuid.UUID, wallets []string) error {
	args := m.Called(userID, wallets)
	return args.Error(0)
}

func (m *MockChatStoreDB) SaveAIQueryToDB(userID uuid.UUID, query, response, queryType string) error {
	args := m.Called(userID, query, response, queryType)
	return args.Error(0)
}

func (m *MockChatStoreDB) GetAIQueriesByUserIDFromDB(userID uuid.UUID, limit int) ([]models.AIQuery, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AIQuery), args.Error(1)
}

type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, messages []services.CompletionMessage) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) CurrentUser() (*models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockAssistant struct {
	mock.Mock
}

func (m *MockAssistant) CreateSession(title string) (*models.ChatSession, error) {
	args := m.Called(title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

func (m *MockAssistant) ListSessions() ([]models.ChatSession, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatSession), args.Error(1)
}

func (m *MockAssistant) RenameSession(sessionID uint, title string) error {
	args := m.Called(sessionID, title)
	return args.Error(0)
}

func (m *MockAssistant) DeleteSession(sessionID uint) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

func (m *MockAssistant) ListMessages(sessionID uint) ([]models.ChatMessage, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

func (m *MockAssistant) SendUserQuery(ctx context.Context, sessionID uint, text string) (*models.ChatMessage, error) {
	args := m.Called(ctx, sessionID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}
