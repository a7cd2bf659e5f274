package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"quizapp/middleware"
	"quizapp/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP responses. Unknown errors are
// logged and reported without detail.
func respondError(c *gin.Context, err error) {
	if verr, ok := services.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
	case errors.Is(err, services.ErrNoQuestions):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No questions"})
	default:
		log.Printf("[%s] %s %s failed: %v", middleware.GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parseQuizID(c *gin.Context) (uint, bool) {
	quizID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || quizID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quiz ID"})
		return 0, false
	}
	return uint(quizID), true
}
