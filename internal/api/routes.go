package api

import (
	"net/http"
	"strconv"
	"time"

	"aidagent_go_backend/internal/apperrors"
	"aidagent_go_backend/internal/auth"
	"aidagent_go_backend/internal/models"
	"aidagent_go_backend/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	assistant *services.AssistantService,
	chatState *services.ChatStateService,
	walletService *services.WalletService,
	taskboardService *services.TaskboardService,
	learningService *services.LearningService,
	sessionState *auth.SessionState,
	jwtSecret string,
) {
	authed := auth.AuthMiddleware(sessionState, jwtSecret)

	api := r.Group("/api")
	{
		api.GET("/chat/sessions", authed, listSessionsHandler(chatState))
		api.POST("/chat/sessions", authed, createSessionHandler(chatState))
		api.DELETE("/chat/sessions/:id", authed, deleteSessionHandler(chatState))
		api.GET("/chat/sessions/:id/messages", authed, listMessagesHandler(assistant))
		api.POST("/chat/query", authed, sendQueryHandler(chatState))

		api.PUT("/user/wallets", authed, updateWalletsHandler(assistant))
		api.GET("/user/analytics", authed, queryAnalyticsHandler(assistant))

		api.POST("/wallet/analyze", authed, analyzeWalletHandler(walletService))

		api.GET("/tasks", authed, listTasksHandler(taskboardService))
		api.POST("/tasks/:id/accept", authed, acceptTaskHandler(taskboardService))
		api.POST("/tasks/:id/proof", authed, submitProofHandler(taskboardService))

		api.GET("/learning/modules", authed, listModulesHandler(learningService))
		api.POST("/learning/modules/:id/complete", authed, completeModuleHandler(learningService))
		api.GET("/learning/progress", authed, learningProgressHandler(learningService))
	}
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.Validation("invalid id")
	}
	return uint(id), nil
}

func sessionJSON(session *models.ChatSession) gin.H {
	return gin.H{
		"id":         session.ID,
		"title":      session.Title,
		"created_at": session.CreatedAt.Format(time.RFC3339),
		"updated_at": session.UpdatedAt.Format(time.RFC3339),
	}
}

func messageJSON(message *models.ChatMessage) gin.H {
	return gin.H{
		"id":         message.ID,
		"session_id": message.SessionID,
		"role":       message.Role,
		"content":    message.Content,
		"created_at": message.CreatedAt.Format(time.RFC3339),
	}
}

func listSessionsHandler(chatState *services.ChatStateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions, current, err := chatState.LoadSessions()
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		sessionList := make([]gin.H, len(sessions))
		for i := range sessions {
			sessionList[i] = sessionJSON(&sessions[i])
		}
		c.JSON(http.StatusOK, gin.H{
			"sessions":           sessionList,
			"current_session_id": current.ID,
		})
	}
}

func createSessionHandler(chatState *services.ChatStateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Title string `json:"title"`
		}
		// Body is optional; an absent title falls back to the default.
		_ = c.ShouldBindJSON(&request)

		session, err := chatState.NewSession(request.Title)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, sessionJSON(session))
	}
}

func deleteSessionHandler(chatState *services.ChatStateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := parseIDParam(c)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		current, err := chatState.DeleteSession(sessionID)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		response := gin.H{"message": "session deleted"}
		if current != nil {
			response["current_session_id"] = current.ID
		}
		c.JSON(http.StatusOK, response)
	}
}

func listMessagesHandler(assistant *services.AssistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := parseIDParam(c)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		messages, err := assistant.ListMessages(sessionID)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		messageList := make([]gin.H, len(messages))
		for i := range messages {
			messageList[i] = messageJSON(&messages[i])
		}
		c.JSON(http.StatusOK, gin.H{"messages": messageList})
	}
}

func sendQueryHandler(chatState *services.ChatStateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			SessionID uint   `json:"session_id"`
			Message   string `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.Validation("message is required"))
			return
		}

		if request.SessionID != 0 {
			if err := chatState.SwitchSession(request.SessionID); err != nil {
				apperrors.HandleError(c, err)
				return
			}
		}

		reply, err := chatState.Send(c.Request.Context(), request.Message)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, messageJSON(reply))
	}
}

func updateWalletsHandler(assistant *services.AssistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Wallets []string `json:"wallets"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.Validation("wallets must be a list of addresses"))
			return
		}

		if err := assistant.UpdateUserWallets(request.Wallets); err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "wallets updated"})
	}
}

func queryAnalyticsHandler(assistant *services.AssistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		queries, err := assistant.GetQueryAnalytics()
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		records := make([]gin.H, len(queries))
		for i, query := range queries {
			records[i] = gin.H{
				"query_type": query.QueryType,
				"created_at": query.CreatedAt.Format(time.RFC3339),
			}
		}
		c.JSON(http.StatusOK, gin.H{"queries": records})
	}
}
