package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"familyhub/internal/assistant"
	"familyhub/internal/calendar"
	"familyhub/internal/config"
	"familyhub/internal/database"
	"familyhub/internal/google"
	"familyhub/internal/handlers"
	"familyhub/internal/repository"
	"familyhub/internal/security"
	"familyhub/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if cfg.AuthJWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	familyRepo := repository.NewFamilyRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	choreRepo := repository.NewChoreRepository(db)
	contextRepo := repository.NewContextRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)

	// Google Calendar integration
	creds := google.NewCredentialManager(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, tokenRepo)
	provider := calendar.NewGoogleProvider(creds)
	aggregator := calendar.NewAggregator(provider, calendarRepo, cfg.EventCacheTTL)

	// Services
	gemini := assistant.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	tenantService := service.NewTenantService(familyRepo)
	chatService := service.NewChatService(conversationRepo, reminderRepo, memberRepo, contextRepo, gemini)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, "Family Hub")
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	digestService := service.NewDigestService(familyRepo, reminderRepo, aggregator, emailService, cfg.DigestToEmail, cfg.DigestHour)

	// Handlers
	middleware := handlers.NewMiddleware(tenantService, cfg.AuthJWTSecret)
	chatLimiter := security.NewRateLimiter(20, time.Minute)

	familyHandler := handlers.NewFamilyHandler(familyRepo, memberRepo)
	memberHandler := handlers.NewMemberHandler(memberRepo)
	conversationHandler := handlers.NewConversationHandler(conversationRepo)
	chatHandler := handlers.NewChatHandler(chatService)
	reminderHandler := handlers.NewReminderHandler(reminderRepo)
	choreHandler := handlers.NewChoreHandler(choreRepo)
	contextHandler := handlers.NewContextHandler(contextRepo)
	googleHandler := handlers.NewGoogleHandler(creds, provider, calendarRepo, aggregator, cfg.AppBaseURL)
	eventsHandler := handlers.NewEventsHandler(aggregator)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Assistant
	mux.HandleFunc("POST /api/chat", middleware.RequireAuth(handlers.RateLimitByFamily(chatLimiter, chatHandler.Send)))
	mux.HandleFunc("GET /api/conversations", middleware.RequireAuth(conversationHandler.List))
	mux.HandleFunc("POST /api/conversations", middleware.RequireAuth(conversationHandler.Create))
	mux.HandleFunc("GET /api/conversations/{id}", middleware.RequireAuth(conversationHandler.Get))
	mux.HandleFunc("DELETE /api/conversations/{id}", middleware.RequireAuth(conversationHandler.Delete))

	// Family data
	mux.HandleFunc("GET /api/family", middleware.RequireAuth(familyHandler.Get))
	mux.HandleFunc("PUT /api/family", middleware.RequireAuth(familyHandler.Update))
	mux.HandleFunc("GET /api/members", middleware.RequireAuth(memberHandler.List))
	mux.HandleFunc("POST /api/members", middleware.RequireAuth(memberHandler.Create))
	mux.HandleFunc("PUT /api/members/{id}", middleware.RequireAuth(memberHandler.Update))
	mux.HandleFunc("DELETE /api/members/{id}", middleware.RequireAuth(memberHandler.Delete))
	mux.HandleFunc("GET /api/reminders", middleware.RequireAuth(reminderHandler.List))
	mux.HandleFunc("POST /api/reminders", middleware.RequireAuth(reminderHandler.Create))
	mux.HandleFunc("PUT /api/reminders/{id}", middleware.RequireAuth(reminderHandler.Update))
	mux.HandleFunc("DELETE /api/reminders/{id}", middleware.RequireAuth(reminderHandler.Delete))
	mux.HandleFunc("GET /api/chores", middleware.RequireAuth(choreHandler.List))
	mux.HandleFunc("POST /api/chores", middleware.RequireAuth(choreHandler.Create))
	mux.HandleFunc("PUT /api/chores/{id}", middleware.RequireAuth(choreHandler.Update))
	mux.HandleFunc("DELETE /api/chores/{id}", middleware.RequireAuth(choreHandler.Delete))
	mux.HandleFunc("GET /api/context", middleware.RequireAuth(contextHandler.List))
	mux.HandleFunc("PUT /api/context", middleware.RequireAuth(contextHandler.Upsert))

	// Google Calendar
	mux.HandleFunc("POST /api/google/auth", middleware.RequireAuth(googleHandler.Auth))
	mux.HandleFunc("GET /api/google/callback", googleHandler.Callback)
	mux.HandleFunc("GET /api/google/status", middleware.RequireAuth(googleHandler.Status))
	mux.HandleFunc("DELETE /api/google/status", middleware.RequireAuth(googleHandler.Disconnect))
	mux.HandleFunc("GET /api/google/calendars", middleware.RequireAuth(googleHandler.Calendars))
	mux.HandleFunc("POST /api/google/calendars/select", middleware.RequireAuth(googleHandler.Select))
	mux.HandleFunc("GET /api/events", middleware.RequireAuth(eventsHandler.List))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Morning digest runs until shutdown
	digestCtx, cancelDigest := context.WithCancel(context.Background())
	go digestService.Run(digestCtx)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	cancelDigest()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
