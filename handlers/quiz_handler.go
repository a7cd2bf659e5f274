package handlers

import (
	"context"
	"net/http"

	"quizapp/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// QuizStore is the part of services.QuizService the quiz endpoints use.
type QuizStore interface {
	ListQuizzes(ctx context.Context) ([]services.QuizSummary, error)
	GetQuiz(ctx context.Context, quizID uint) (*services.QuizDetail, error)
	CreateQuiz(ctx context.Context, req *services.CreateQuizRequest) (uint, error)
}

type QuizHandler struct {
	quizService QuizStore
}

func NewQuizHandler(quizService QuizStore) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
	}
}

func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.ListQuizzes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) GetQuizByID(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req services.CreateQuizRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		body, _ := c.Get(gin.BodyBytesKey)
		raw, _ := body.([]byte)
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err, raw)})
		return
	}

	quizID, err := h.quizService.CreateQuiz(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": quizID})
}
