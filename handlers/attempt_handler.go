package handlers

import (
	"context"
	"net/http"

	"quizapp/services"

	"github.com/gin-gonic/gin"
)

// AttemptStore is the part of services.AttemptService the attempt endpoints use.
type AttemptStore interface {
	Submit(ctx context.Context, quizID uint, answers map[string]interface{}) (*services.GradeResult, error)
	ListAttempts(ctx context.Context, quizID uint, limit int) ([]services.AttemptView, error)
}

type AttemptHandler struct {
	attemptService AttemptStore
}

func NewAttemptHandler(attemptService AttemptStore) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
	}
}

// SubmitAttempt grades {"answers": {"<questionId>": <index>}} and stores the result.
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	var req services.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answers"})
		return
	}

	result, err := h.attemptService.Submit(c.Request.Context(), quizID, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	attempts, err := h.attemptService.ListAttempts(c.Request.Context(), quizID, services.MaxAttemptHistory)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}
