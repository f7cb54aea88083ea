package api

import (
	"net/http"

	"aidagent_go_backend/internal/apperrors"
	"aidagent_go_backend/internal/services"

	"github.com/gin-gonic/gin"
)

func analyzeWalletHandler(walletService *services.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Address string `json:"address" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.Validation("address is required"))
			return
		}

		report, err := walletService.Analyze(request.Address)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func listTasksHandler(taskboardService *services.TaskboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tasks, err := taskboardService.List(c.Query("filter"))
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tasks": tasks})
	}
}

func acceptTaskHandler(taskboardService *services.TaskboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := parseIDParam(c)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		task, err := taskboardService.Accept(taskID)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

func submitProofHandler(taskboardService *services.TaskboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID, err := parseIDParam(c)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		var request struct {
			Proof string `json:"proof" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.Validation("proof is required"))
			return
		}

		task, err := taskboardService.SubmitProof(taskID, request.Proof)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

func listModulesHandler(learningService *services.LearningService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"modules": learningService.List()})
	}
}

func completeModuleHandler(learningService *services.LearningService) gin.HandlerFunc {
	return func(c *gin.Context) {
		moduleID, err := parseIDParam(c)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		module, err := learningService.Complete(moduleID)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, module)
	}
}

func learningProgressHandler(learningService *services.LearningService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, learningService.Progress())
	}
}
