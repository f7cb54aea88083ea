package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"aidagent_go_backend/internal/apperrors"
	"aidagent_go_backend/internal/models"
	"aidagent_go_backend/internal/services"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	fallbackNoCompletion = "Sorry, I could not process your request."
	fallbackQueryError   = "I apologize, but I encountered an error processing your request. Please try again."
)

func newTestUser() *models.User {
	return &models.User{ID: uuid.New(), Email: "test@example.com"}
}

func emptyContext(userID uuid.UUID) *models.UserContext {
	return &models.UserContext{UserID: userID, Wallets: "[]", Preferences: "{}"}
}

func TestSendUserQuery(t *testing.T) {
	ctx := context.Background()
	sessionID := uint(7)

	t.Run("successful query appends user and assistant messages", func(t *testing.T) {
		mockStore := new(MockChatStoreDB)
		mockCompletion := new(MockCompletionClient)
		mockIdentity := new(MockIdentity)
		user := newTestUser()

		assistant := services.NewAssistantService(mockStore, mockCompletion, mockIdentity, zerolog.Nop())

		userMessage := &models.ChatMessage{ID: 1, SessionID: sessionID, Role: models.RoleUser, Content: "hi"}
		assistantMessage := &models.ChatMessage{ID: 2, SessionID: sessionID, Role: models.RoleAssistant, Content: "hello back"}

		mockIdentity.On("CurrentUser").Return(user, nil)
		mockStore.On("SaveMessageToDB", user.ID, sessionID, models.RoleUser, "hi").Return(userMessage, nil).Once()
		mockStore.On("GetOrCreateUserContextFromDB", user.ID).Return(emptyContext(user.ID), nil).Once()
		mockStore.On("GetMessagesBySessionIDFromDB", user.ID, sessionID).Return([]models.ChatMessage{*userMessage}, nil).Once()
		mockCompletion.On("Complete", mock.Anything, mock.Anything).Return("hello back", nil).Once()
		mockStore.On("SaveMessageToDB", user.ID, sessionID, models.RoleAssistant, "hello back").Return(assistantMessage, nil).Once()

		recorded := make(chan struct{})
		mockStore.On("SaveAIQueryToDB", user.ID, "hi", "hello back", "general").
			Run(func(args mock.Arguments) { close(recorded) }).
			Return(nil).Once()

		reply, err := assistant.SendUserQuery(ctx, sessionID, "hi")

		assert.NoError(t, err)
		assert.Equal(t, "hello back", reply.Content)
		assert.Equal(t, models.RoleAssistant, reply.Role)

		select {
		case <-recorded:
		case <-time.After(time.Second):
			t.Fatal("analytics record was never written")
		}
		mockStore.AssertExpectations(t)
		mockCompletion.AssertExpectations(t)
	})

	t.Run("gateway failure yields fallback assistant message without error", func(t *testing.T) {
		mockStore := new(MockChatStoreDB)
		mockCompletion := new(MockCompletionClient)
		mockIdentity := new(MockIdentity)
		user := newTestUser()

		assistant := services.NewAssistantService(mockStore, mockCompletion, mockIdentity, zerolog.Nop())

		userMessage := &models.ChatMessage{ID: 1, SessionID: sessionID, Role: models.RoleUser, Content: "hi"}
		fallbackMessage := &models.ChatMessage{ID: 2, SessionID: sessionID, Role: models.RoleAssistant, Content: fallbackQueryError}

		mockIdentity.On("CurrentUser").Return(user, nil)
		mockStore.On("SaveMessageToDB", user.ID, sessionID, models.RoleUser, "hi").Return(userMessage, nil).Once()
		mockStore.On("GetOrCreateUserContextFromDB", user.ID).Return(emptyContext(user.ID), nil).Once()
		mockStore.On("GetMessagesBySessionIDFromDB", user.ID, sessionID).Return([]models.ChatMessage{*userMessage}, nil).Once()
		mockCompletion.On("Complete", mock.Anything, mock.Anything).
			Return("", apperrors.Gateway(fmt.Errorf("connection refused"))).Once()
		mockStore.On("SaveMessageToDB", user.ID, sessionID, models.RoleAssistant, fallbackQueryError).Return(fallbackMessage, nil).Once()

		reply, err := assistant.SendUserQuery(ctx, sessionID, "hi")

		assert.NoError(t, err)
		assert.Equal(t, fallbackQueryError, reply.Content)
		mockStore.AssertExpectations(t)
		mockStore.AssertNotCalled(t, "SaveAIQueryToDB", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty completion choices substitute the no-completion fallback", func(t *testing.T) {
		mockStore := new(MockChatStoreDB)
		mockCompletion := new(MockCompletionClient)
		mockIdentity := new(MockIdentity)
		user := newTestUser()

		assistant := services.NewAssistantService(mockStore, mockCompletion, mockIdentity, zerolog.Nop())

		userMessage := &models.ChatMessage{ID: 1, SessionID: sessionID, Role: models.RoleUser, Content: "hi"}
		fallbackMessage := &models.ChatMessage{ID: 2, SessionID: sessionID, Role: models.RoleAssistant, Content: fallbackNoCompletion}

		mockIdentity.On("CurrentUser").Return(user, nil)
		mockStore.On("SaveMessageToDB", user.ID, sessionID, models.RoleUser, "hi").Return(userMessage, nil).Once()
		mockStore.On("GetOrCreateUserContextFromDB", user.ID).Return(emptyContext(user.ID), nil).Once()
		mockStore.On("GetMessagesBySessionIDFromDB", user.ID, sessionID).Return([]models.ChatMessage{*userMessage}, nil).Once()
		mockCompletion.On("Complete", mock.Anything, mock.Anything).Return("", nil).Once()
		mockStore.On("SaveMessageToDB", user.ID, sessionID, models.RoleAssistant, fallbackNoCompletion).Return(fallbackMessage, nil).Once()
		mockStore.On("SaveAIQueryToDB", user.ID, "hi", fallbackNoCompletion, "general").Return(nil).Maybe()

		reply, err := assistant.SendUserQuery(ctx, sessionID, "hi")

		assert.NoError(t, err)
		assert.Equal(t, fallbackNoCompletion, reply.Content)
	})

	t.Run("whitespace-only content is rejected", func(t *testing.T) {
		mockStore := new(MockChatStoreDB)
		mockCompletion := new(MockCompletionClient)
		mockIdentity := new(MockIdentity)

		assistant := services.NewAssistantService(mockStore, mockCompletion, mockIdentity, zerolog.Nop())

		reply, err := assistant.SendUserQuery(ctx, sessionID, "   \n\t")

		assert.Nil(t, reply)
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
		mockIdentity.AssertNotCalled(t, "CurrentUser")
	})

	t.Run("unauthenticated caller gets the error verbatim", func(t *testing.T) {
		mockStore := new(MockChatStoreDB)
		mockCompletion := new(MockCompletionClient)
		mockIdentity := new(MockIdentity)

		assistant := services.NewAssistantService(mockStore, mockCompletion, mockIdentity, zerolog.Nop())

		mockIdentity.On("CurrentUser").Return(nil, apperrors.Unauthenticated())

		reply, err := assistant.SendUserQuery(ctx, sessionID, "hi")

		assert.Nil(t, reply)
		assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
	})

	t.Run("second query on the same session is rejected while one is in flight", func(t *testing.T) {
		mockStore := new(MockChatStoreDB)
		mockCompletion := new(MockCompletionClient)
		mockIdentity := new(MockIdentity)
		user := newTestUser()

		assistant := services.NewAssistantService(mockStore, mockCompletion, mockIdentity, zerolog.Nop())

		message := &models.ChatMessage{ID: 1, SessionID: sessionID, Role: models.RoleUser, Content: "first"}

		started := make(chan struct{})
		release := make(chan struct{})

		mockIdentity.On("CurrentUser").Return(user, nil)
		mockStore.On("SaveMessageToDB", user.ID, sessionID, mock.Anything, mock.Anything).Return(message, nil)
		mockStore.On("GetOrCreateUserContextFromDB", user.ID).Return(emptyContext(user.ID), nil)
		mockStore.On("GetMessagesBySessionIDFromDB", user.ID, sessionID).Return([]models.ChatMessage{*message}, nil)
		mockStore.On("SaveAIQueryToDB", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
		mockCompletion.On("Complete", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				close(started)
				<-release
			}).
			Return("done", nil).Once()

		firstDone := make(chan error, 1)
		go func() {
			_, err := assistant.SendUserQuery(ctx, sessionID, "first")
			firstDone <- err
		}()

		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatal("first query never reached the completion gateway")
		}

		_, err := assistant.SendUserQuery(ctx, sessionID, "second")
		assert.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))

		close(release)
		select {
		case err := <-firstDone:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("first query never finished")
		}
	})

	t.Run("history passed to the gateway is bounded at ten prior messages", func(t *testing.T) {
		mockStore := new(MockChatStoreDB)
		mockCompletion := new(MockCompletionClient)
		mockIdentity := new(MockIdentity)
		user := newTestUser()

		assistant := services.NewAssistantService(mockStore, mockCompletion, mockIdentity, zerolog.Nop())

		var history []models.ChatMessage
		for i := 0; i < 25; i++ {
			history = append(history, models.ChatMessage{
				ID:        uint(i + 1),
				SessionID: sessionID,
				Role:      models.RoleUser,
				Content:   fmt.Sprintf("message %d", i+1),
			})
		}

		message := &models.ChatMessage{ID: 26, SessionID: sessionID, Role: models.RoleUser, Content: "latest question"}

		mockIdentity.On("CurrentUser").Return(user, nil)
		mockStore.On("SaveMessageToDB", user.ID, sessionID, mock.Anything, mock.Anything).Return(message, nil)
		mockStore.On("GetOrCreateUserContextFromDB", user.ID).Return(emptyContext(user.ID), nil)
		mockStore.On("GetMessagesBySessionIDFromDB", user.ID, sessionID).Return(history, nil)
		mockStore.On("SaveAIQueryToDB", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
		mockCompletion.On("Complete", mock.Anything, mock.MatchedBy(func(messages []services.CompletionMessage) bool {
			// system prompt + 10 most recent + the new user message
			return len(messages) == 12 &&
				messages[0].Role == "system" &&
				messages[1].Content == "message 16" &&
				messages[11].Content == "latest question"
		})).Return("answer", nil).Once()

		_, err := assistant.SendUserQuery(ctx, sessionID, "latest question")

		assert.NoError(t, err)
		mockCompletion.AssertExpectations(t)
	})
}

func TestAppendMessage(t *testing.T) {
	mockStore := new(MockChatStoreDB)
	mockCompletion := new(MockCompletionClient)
	mockIdentity := new(MockIdentity)
	user := newTestUser()

	assistant := services.NewAssistantService(mockStore, mockCompletion, mockIdentity, zerolog.Nop())

	mockIdentity.On("CurrentUser").Return(user, nil)

	_, err := assistant.AppendMessage(7, "  ", models.RoleUser)
	assert.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
	mockStore.AssertNotCalled(t, "SaveMessageToDB", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	stored := &models.ChatMessage{ID: 1, SessionID: 7, Role: models.RoleAssistant, Content: "noted"}
	mockStore.On("SaveMessageToDB", user.ID, uint(7), models.RoleAssistant, "noted").Return(stored, nil).Once()

	message, err := assistant.AppendMessage(7, "noted", models.RoleAssistant)
	assert.NoError(t, err)
	assert.Equal(t, stored, message)
	mockStore.AssertExpectations(t)
}

func TestListSessionsUnauthenticated(t *testing.T) {
	mockStore := new(MockChatStoreDB)
	mockCompletion := new(MockCompletionClient)
	mockIdentity := new(MockIdentity)

	assistant := services.NewAssistantService(mockStore, mockCompletion, mockIdentity, zerolog.Nop())

	mockIdentity.On("CurrentUser").Return(nil, apperrors.Unauthenticated())

	sessions, err := assistant.ListSessions()

	assert.NoError(t, err)
	assert.Empty(t, sessions)
	mockStore.AssertNotCalled(t, "GetSessionsByUserIDFromDB", mock.Anything)
}

func TestListMessagesNotOwnedIsEmpty(t *testing.T) {
	mockStore := new(MockChatStoreDB)
	mockCompletion := new(MockCompletionClient)
	mockIdentity := new(MockIdentity)
	user := newTestUser()

	assistant := services.NewAssistantService(mockStore, mockCompletion, mockIdentity, zerolog.Nop())

	mockIdentity.On("CurrentUser").Return(user, nil)
	mockStore.On("GetMessagesBySessionIDFromDB", user.ID, uint(99)).
		Return(nil, apperrors.NotFound("session not found"))

	messages, err := assistant.ListMessages(99)

	assert.NoError(t, err)
	assert.Empty(t, messages)
}
