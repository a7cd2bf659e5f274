package main

import (
	"context"
	"log"

	"quizapp/config"
	"quizapp/handlers"
	"quizapp/middleware"
	"quizapp/routes"
	"quizapp/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := config.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Optional event publisher
	var events services.EventPublisher
	if cfg.RabbitMQURI != "" && cfg.RabbitMQExchange != "" {
		publisher, err := services.NewAMQPPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
		events = publisher
	} else {
		log.Println("RabbitMQ not configured, domain events will not be published")
	}

	// Initialize services
	quizService := services.NewQuizService(db, events)
	attemptService := services.NewAttemptService(db, events)

	seeded, err := quizService.Seed(context.Background())
	if err != nil {
		log.Fatal("Failed to seed database:", err)
	}
	if seeded {
		log.Println("Seeded sample quiz")
	}

	// Optional attempt rate limiting
	var limiter middleware.Limiter
	redisClient, err := config.InitRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		limiter = middleware.NewRedisLimiter(redisClient, cfg.AttemptRateLimit, cfg.AttemptRateWindow)
	} else {
		log.Println("Redis not configured, attempt submissions are not rate limited")
	}

	// Initialize handlers
	quizHandler := handlers.NewQuizHandler(quizService)
	attemptHandler := handlers.NewAttemptHandler(attemptService)

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.RequestID(), middleware.Metrics(), middleware.CORS(cfg.CORSOrigins))

	routes.SetupRoutes(router, quizHandler, attemptHandler, limiter, cfg.PublicDir)

	log.Printf("Server listening on http://localhost:%s", cfg.Port)
	if err := router.Run(cfg.Addr()); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
