package routes

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"quizapp/handlers"
	"quizapp/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	router *gin.Engine,
	quizHandler *handlers.QuizHandler,
	attemptHandler *handlers.AttemptHandler,
	limiter middleware.Limiter,
	publicDir string,
) {
	handlers.RegisterValidators()

	// API routes
	api := router.Group("/api")
	{
		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("", quizHandler.ListQuizzes)
			quizzes.POST("", quizHandler.CreateQuiz)
			quizzes.GET("/:id", quizHandler.GetQuizByID)
			quizzes.GET("/:id/attempts", attemptHandler.ListAttempts)
			quizzes.POST("/:id/attempts", middleware.RateLimit(limiter), attemptHandler.SubmitAttempt)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Everything else belongs to the single-page app
	router.NoRoute(serveSPA(publicDir))
}

// serveSPA serves files from publicDir and falls back to index.html so the
// client-side router can resolve the path.
func serveSPA(publicDir string) gin.HandlerFunc {
	index := filepath.Join(publicDir, "index.html")

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		name := filepath.Join(publicDir, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
		if name != index {
			if info, err := os.Stat(name); err == nil && !info.IsDir() {
				c.File(name)
				return
			}
		}

		// Written directly: http.ServeFile would redirect /index.html and
		// reject paths containing "..".
		body, err := os.ReadFile(index)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", body)
	}
}
