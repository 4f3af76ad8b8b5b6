// cmd/api/main.go
// Main entry point for the application with debug logging
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/tandemlabs/tandem-backend/internal/auth"
	"github.com/tandemlabs/tandem-backend/internal/common/database"
	"github.com/tandemlabs/tandem-backend/internal/config"
	"github.com/tandemlabs/tandem-backend/internal/frequency"
	"github.com/tandemlabs/tandem-backend/internal/helpinghand"
	"github.com/tandemlabs/tandem-backend/internal/memories"
	notifications "github.com/tandemlabs/tandem-backend/internal/notification"
	"github.com/tandemlabs/tandem-backend/internal/personalization"
	"github.com/tandemlabs/tandem-backend/internal/suggestions"
)

func main() {
	// Enable detailed logging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Tandem Couples API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	log.Printf("✅ Configuration loaded")

	// 3. Validate configuration
	log.Println("\n✔️  Step 3: Validating configuration...")
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration is valid")

	// 4. Connect to PostgreSQL
	log.Println("\n🗄️  Step 4: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	sqlxDB := sqlx.NewDb(db, "postgres")

	// 5. Connect to Redis (optional)
	log.Println("\n📮 Step 5: Connecting to Redis...")
	var redisClient *redis.Client

	if cfg.RedisURL != "" {
		client, err := database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without Redis", err)
		} else {
			redisClient = client
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 6. Run database migrations
	log.Println("\n🔨 Step 6: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Printf("❌ Migration error: %v", err)
		log.Fatal("Failed to run migrations")
	}
	log.Println("✅ Database migrations completed")

	// Root context for background jobs; cancelled on shutdown.
	appCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()

	// 7. Initialize Auth middleware
	log.Println("\n🔐 Step 7: Initializing auth middleware...")
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)
	log.Println("✅ Auth middleware initialized")

	// 8. Initialize Personalization + Suggestions
	log.Println("\n🧩 Step 8: Initializing Personalization and Suggestions...")

	personalizationRepo := personalization.NewPostgresRepository(sqlxDB)
	contextBuilder := personalization.NewBuilder(personalizationRepo)

	suggestionsRepo := suggestions.NewPostgresRepository(sqlxDB)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	suggestionsService := suggestions.NewService(suggestionsRepo, contextBuilder, rng)
	suggestionsHandler := suggestions.NewHandler(suggestionsService)

	if cfg.EnableWeeklyPregeneration {
		suggestionsScheduler := suggestions.NewScheduler(suggestionsService)
		suggestionsScheduler.Start(appCtx)
		log.Println("   ✅ Weekly pre-generation scheduler started (Monday 06:00)")
	}

	log.Println("✅ Personalization and Suggestions initialized")

	// 9. Initialize Frequency engine
	log.Println("\n⏱️  Step 9: Initializing Frequency engine...")

	frequencyRepo := frequency.NewPostgresRepository(sqlxDB)
	promptCounter := frequency.NewPromptCounter(redisClient, frequencyRepo)
	frequencyService := frequency.NewService(frequencyRepo, promptCounter, frequency.RealClock())
	frequencyHandler := frequency.NewHandler(frequencyService)

	log.Println("✅ Frequency engine initialized")

	// 10. Initialize Notifications
	log.Println("\n🔔 Step 10: Initializing Notifications module...")

	notificationsRepo := notifications.NewPostgresRepository(sqlxDB)

	var notifPushService notifications.PushService
	var notifEmailService notifications.EmailService
	var notifSmsService notifications.SMSService

	// Push (FCM)
	if cfg.EnablePushNotifications {
		fcmService, err := notifications.NewFCMPushService(context.Background())
		if err != nil {
			log.Printf("Warning: Failed to initialize FCM push service: %v", err)
			notifPushService = notifications.NewMockPushService()
		} else {
			notifPushService = fcmService
			log.Println("   ✅ FCM push service initialized")
		}
	} else {
		notifPushService = notifications.NewMockPushService()
		log.Println("   📝 Using mock push service (development mode)")
	}

	// Email (SendGrid)
	if cfg.EnableEmailNotifications && cfg.EmailProvider == "sendgrid" {
		sendgridService, err := notifications.NewSendGridEmailService()
		if err != nil {
			log.Printf("Warning: Failed to initialize SendGrid email service: %v", err)
			notifEmailService = notifications.NewMockEmailService()
		} else {
			notifEmailService = sendgridService
			log.Println("   ✅ SendGrid email service initialized")
		}
	} else {
		notifEmailService = notifications.NewMockEmailService()
		log.Println("   📝 Using mock email service (development mode)")
	}

	// SMS (Twilio)
	if cfg.EnableSMSNotifications && cfg.SMSProvider == "twilio" {
		twilioService, err := notifications.NewTwilioSMSService()
		if err != nil {
			log.Printf("Warning: Failed to initialize Twilio SMS service: %v", err)
			notifSmsService = notifications.NewMockSMSService()
		} else {
			notifSmsService = twilioService
			log.Println("   ✅ Twilio SMS service initialized")
		}
	} else {
		notifSmsService = notifications.NewMockSMSService()
		log.Println("   📝 Using mock SMS service (development mode)")
	}

	// WebSocket hub for in-app delivery
	notificationsHub := notifications.NewHub()
	go notificationsHub.Run()
	log.Println("   ✅ Notification WebSocket hub started")

	// Live partner context drives adaptive timing
	contextProvider := notifications.NewPostgresContextProvider(sqlxDB)

	notificationsService := notifications.NewService(
		notificationsRepo,
		notifPushService,
		notifEmailService,
		notifSmsService,
		notificationsHub,
		contextProvider,
	)

	notificationsHandler := notifications.NewHandler(notificationsService, notificationsHub)

	// Persisted scheduled notifications survive restarts
	processingLoop := notifications.NewProcessingLoop(notificationsService, cfg.ScheduledNotificationInterval)
	go processingLoop.Start(appCtx)

	cleanupJob := notifications.NewCleanupJob(notificationsService, 24*time.Hour, cfg.NotificationRetention)
	go cleanupJob.Start(appCtx)

	log.Println("✅ Notifications module initialized")

	// 11. Initialize Helping Hand
	log.Println("\n🤝 Step 11: Initializing Helping Hand module...")

	helpingHandRepo := helpinghand.NewPostgresRepository(sqlxDB)
	helpingHandService := helpinghand.NewService(helpingHandRepo, notificationsService)
	helpingHandHandler := helpinghand.NewHandler(helpingHandService)

	go startReminderLoop(appCtx, helpingHandService, cfg.ReminderPollInterval)
	log.Println("   ✅ Reminder poll loop started")

	log.Println("✅ Helping Hand module initialized")

	// 12. Initialize Memories
	log.Println("\n📸 Step 12: Initializing Memories module...")

	memoriesRepo := memories.NewPostgresRepository(sqlxDB)

	var memoriesUploads memories.UploadService
	if cfg.UseS3 {
		memoriesUploads, err = memories.NewS3UploadService(cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			log.Printf("⚠️  Failed to init S3 for memories, using local: %v", err)
			memoriesUploads = memories.NewLocalUploadService(cfg.LocalUploadDir, cfg.BaseURL+"/uploads")
		} else {
			log.Println("   ✅ Using S3 for memory photos")
		}
	} else {
		memoriesUploads = memories.NewLocalUploadService(cfg.LocalUploadDir, cfg.BaseURL+"/uploads")
		log.Println("   ✅ Using local storage for memory photos")
	}

	memoriesService := memories.NewService(memoriesRepo, memoriesUploads)
	memoriesHandler := memories.NewHandler(memoriesService)

	log.Println("✅ Memories module initialized")

	// 13. Setup routes
	log.Println("\n🛣️  Step 13: Setting up routes...")
	router := mux.NewRouter()

	// Static files for uploads
	if !cfg.UseS3 {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/",
				http.FileServer(http.Dir(cfg.LocalUploadDir))))
		log.Println("   ✅ Static file server configured")
	}

	// Health check and metrics
	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/api", apiInfo).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	suggestions.RegisterRoutes(router, suggestionsHandler, authMiddleware)
	log.Println("   ✅ Suggestions routes registered")

	notifications.RegisterRoutes(router, notificationsHandler, authMiddleware)
	log.Println("   ✅ Notifications routes registered")

	helpinghand.RegisterRoutes(router, helpingHandHandler, authMiddleware)
	log.Println("   ✅ Helping Hand routes registered")

	memories.RegisterRoutes(router, memoriesHandler, authMiddleware)
	log.Println("   ✅ Memories routes registered")

	// Frequency handlers are chi-based; mount the chi router under its prefix.
	frequencyRouter := chi.NewRouter()
	frequency.RegisterRoutes(frequencyRouter, frequencyHandler, authMiddleware)
	router.PathPrefix("/api/v1/frequency").Handler(frequencyRouter)
	log.Println("   ✅ Frequency routes registered")

	// Add middleware
	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	// 14. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")

	// Stop background loops and the websocket hub
	stopJobs()
	processingLoop.Stop()
	cleanupJob.Stop()
	notificationsHub.Shutdown()

	// Graceful server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

// startReminderLoop fires due helping-hand reminders on an interval.
func startReminderLoop(ctx context.Context, service helpinghand.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if err := service.ProcessDueReminders(runCtx); err != nil {
				log.Printf("Failed to process due reminders: %v", err)
			}
			cancel()
		case <-ctx.Done():
			return
		}
	}
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// apiInfo returns API information
func apiInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{
        "name": "Tandem Couples API",
        "version": "1.0.0",
        "status": "running",
        "endpoints": {
            "health": "GET /health",
            "metrics": "GET /metrics",
            "suggestions": {
                "week": "GET /api/v1/suggestions/{category}",
                "generate": "POST /api/v1/suggestions/{category}/generate",
                "update": "PATCH /api/v1/suggestions/{id}"
            },
            "frequency": {
                "check": "GET /api/v1/frequency/check",
                "profile": "GET /api/v1/frequency/profile",
                "graduation": "GET /api/v1/frequency/graduation",
                "quietMode": "PUT /api/v1/frequency/quiet-mode"
            },
            "notifications": {
                "feed": "GET /api/v1/notifications/feed",
                "list": "GET /api/v1/notifications",
                "send": "POST /api/v1/notifications/send",
                "preferences": "GET /api/v1/notifications/preferences"
            },
            "helpingHand": {
                "categories": "GET /api/v1/helping-hand/categories",
                "suggestions": "GET /api/v1/helping-hand/suggestions",
                "reminders": "POST /api/v1/helping-hand/reminders",
                "hints": "GET /api/v1/helping-hand/hints",
                "status": "GET /api/v1/helping-hand/status"
            },
            "memories": {
                "create": "POST /api/v1/memories",
                "list": "GET /api/v1/memories",
                "update": "PATCH /api/v1/memories/{id}"
            }
        }
    }`))
}

// Middleware functions

var startTime = time.Now()

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log.Printf("→ %s %s from %s", r.Method, r.RequestURI, r.RemoteAddr)

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// runMigrations executes database migrations
func runMigrations(db *sql.DB) error {
	log.Println("   - Creating/updating tables...")

	migrations := []string{
		// Users table. Auth and account lifecycle live in the identity
		// service; this schema only carries what the couples features read.
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            email VARCHAR(255) UNIQUE,
            phone_number VARCHAR(20),
            partner_id BIGINT REFERENCES users(id),
            last_active TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		// Mood check-ins feed adaptive notification timing
		`CREATE TABLE IF NOT EXISTS mood_checkins (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            mood INTEGER NOT NULL CHECK (mood BETWEEN 1 AND 10),
            energy INTEGER NOT NULL CHECK (energy BETWEEN 1 AND 10),
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		// Daily calendar-overlap sync from the mobile clients
		`CREATE TABLE IF NOT EXISTS shared_availability (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            day DATE NOT NULL,
            overlap_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
            CONSTRAINT unique_availability_day UNIQUE(user_id, day)
        )`,

		// Personalization inputs
		`CREATE TABLE IF NOT EXISTS partner_onboarding (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
            data JSONB NOT NULL DEFAULT '{}',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS insights (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            question_text TEXT NOT NULL,
            partner_answer TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS quiz_answers (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            question_id BIGINT,
            answer TEXT,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS weekly_wishes (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            wish_text TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		// Weekly personalized suggestions
		`CREATE TABLE IF NOT EXISTS suggestions (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            category VARCHAR(50) NOT NULL,
            suggestion_text TEXT NOT NULL,
            suggestion_type VARCHAR(50) NOT NULL,
            reason TEXT NOT NULL DEFAULT '',
            time_estimate VARCHAR(50) NOT NULL DEFAULT '',
            difficulty VARCHAR(20) NOT NULL DEFAULT 'easy',
            week_start_date DATE NOT NULL,
            saved BOOLEAN DEFAULT FALSE,
            completed BOOLEAN DEFAULT FALSE,
            data_sources JSONB DEFAULT '{}',
            personalization_tier INTEGER NOT NULL DEFAULT 1,
            metadata JSONB,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS suggestion_generation_metadata (
            id UUID PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            category VARCHAR(50) NOT NULL,
            week_start_date DATE NOT NULL,
            tier INTEGER NOT NULL,
            candidate_count INTEGER NOT NULL,
            top_score INTEGER NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		// Frequency engine
		`CREATE TABLE IF NOT EXISTS partner_profiles (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
            love_language_primary VARCHAR(50) NOT NULL DEFAULT '',
            love_language_secondary VARCHAR(50) NOT NULL DEFAULT '',
            communication_style VARCHAR(50) NOT NULL DEFAULT '',
            stress_needs VARCHAR(100) NOT NULL DEFAULT '',
            frequency_preference VARCHAR(20) NOT NULL DEFAULT 'weekly',
            checkin_windows TEXT[] DEFAULT '{}',
            custom_preferences TEXT[] DEFAULT '{}',
            learned_patterns JSONB DEFAULT '{}',
            engagement_score INTEGER DEFAULT 0,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS quiet_mode (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
            active BOOLEAN DEFAULT FALSE,
            reason TEXT NOT NULL DEFAULT '',
            allow_emergency_messages BOOLEAN DEFAULT FALSE,
            activated_at TIMESTAMP WITH TIME ZONE,
            ends_at TIMESTAMP WITH TIME ZONE,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS learning_events (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            event_type VARCHAR(50) NOT NULL,
            context JSONB,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		// Notifications
		`CREATE TABLE IF NOT EXISTS notifications (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            type VARCHAR(50) NOT NULL,
            title VARCHAR(255) NOT NULL,
            message TEXT NOT NULL,
            data JSONB,
            is_read BOOLEAN DEFAULT FALSE,
            read_at TIMESTAMP WITH TIME ZONE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS notification_preferences (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
            push_enabled BOOLEAN DEFAULT TRUE,
            email_enabled BOOLEAN DEFAULT TRUE,
            sms_enabled BOOLEAN DEFAULT FALSE,
            check_ins BOOLEAN DEFAULT TRUE,
            celebrations BOOLEAN DEFAULT TRUE,
            reminders BOOLEAN DEFAULT TRUE,
            suggestions BOOLEAN DEFAULT TRUE,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS push_tokens (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            token TEXT NOT NULL UNIQUE,
            platform VARCHAR(20) NOT NULL,
            device_id VARCHAR(255),
            is_active BOOLEAN DEFAULT TRUE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            CONSTRAINT unique_user_device UNIQUE(user_id, device_id)
        )`,

		`CREATE TABLE IF NOT EXISTS scheduled_notifications (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            type VARCHAR(50) NOT NULL,
            title VARCHAR(255) NOT NULL,
            message TEXT NOT NULL,
            data JSONB,
            channels TEXT[] DEFAULT '{}',
            timing VARCHAR(20) NOT NULL,
            priority VARCHAR(20) NOT NULL,
            scheduled_for TIMESTAMP WITH TIME ZONE NOT NULL,
            status VARCHAR(20) NOT NULL DEFAULT 'pending',
            sent_at TIMESTAMP WITH TIME ZONE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		// Helping hand
		`CREATE TABLE IF NOT EXISTS helping_hand_categories (
            id BIGSERIAL PRIMARY KEY,
            name VARCHAR(100) NOT NULL,
            slug VARCHAR(100) NOT NULL UNIQUE,
            description TEXT NOT NULL DEFAULT '',
            icon VARCHAR(50) NOT NULL DEFAULT '',
            sort_order INTEGER NOT NULL DEFAULT 0
        )`,

		`CREATE TABLE IF NOT EXISTS helping_hand_suggestions (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            category_id BIGINT NOT NULL REFERENCES helping_hand_categories(id),
            text TEXT NOT NULL,
            time_estimate VARCHAR(50) NOT NULL DEFAULT '',
            difficulty VARCHAR(20) NOT NULL DEFAULT 'easy',
            week_start_date DATE NOT NULL,
            completed BOOLEAN DEFAULT FALSE,
            completed_at TIMESTAMP WITH TIME ZONE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS helping_hand_reminders (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            suggestion_id BIGINT REFERENCES helping_hand_suggestions(id),
            title VARCHAR(255) NOT NULL,
            notes TEXT NOT NULL DEFAULT '',
            frequency VARCHAR(20) NOT NULL,
            weekdays INTEGER[] DEFAULT '{}',
            next_due_at TIMESTAMP WITH TIME ZONE,
            active BOOLEAN DEFAULT TRUE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS helping_hand_partner_hints (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            partner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            hint TEXT NOT NULL,
            category VARCHAR(50) NOT NULL DEFAULT '',
            active BOOLEAN DEFAULT TRUE,
            expires_at TIMESTAMP WITH TIME ZONE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS helping_hand_partner_guesses (
            id BIGSERIAL PRIMARY KEY,
            guesser_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            subject_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            question TEXT NOT NULL,
            guess TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		`CREATE TABLE IF NOT EXISTS helping_hand_user_status (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            week_start_date DATE NOT NULL,
            tasks_completed INTEGER NOT NULL DEFAULT 0,
            tasks_total INTEGER NOT NULL DEFAULT 0,
            streak INTEGER NOT NULL DEFAULT 0,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            CONSTRAINT unique_user_week UNIQUE(user_id, week_start_date)
        )`,

		// Memories scrapbook
		`CREATE TABLE IF NOT EXISTS memories (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            title VARCHAR(255) NOT NULL,
            note TEXT NOT NULL DEFAULT '',
            photo_url TEXT,
            memory_date DATE NOT NULL,
            favorite BOOLEAN DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_mood_checkins_user ON mood_checkins(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_insights_user ON insights(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_weekly_wishes_user ON weekly_wishes(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_suggestions_user_week ON suggestions(user_id, week_start_date, category)`,
		`CREATE INDEX IF NOT EXISTS idx_learning_events_user ON learning_events(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_pending ON scheduled_notifications(status, scheduled_for)`,
		`CREATE INDEX IF NOT EXISTS idx_hh_suggestions_user_week ON helping_hand_suggestions(user_id, week_start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_hh_reminders_due ON helping_hand_reminders(active, next_due_at)`,
		`CREATE INDEX IF NOT EXISTS idx_memories_user_date ON memories(user_id, memory_date DESC)`,

		// Seed helping-hand categories
		`INSERT INTO helping_hand_categories (name, slug, description, icon, sort_order) VALUES
            ('Thoughtful Gestures', 'thoughtful-gestures', 'Small surprises that show you pay attention', 'gift', 1),
            ('Household Help', 'household-help', 'Take something off your partner''s plate', 'home', 2),
            ('Quality Time', 'quality-time', 'Undivided attention, together', 'clock', 3),
            ('Words of Affirmation', 'words-of-affirmation', 'Say the thing out loud', 'message-circle', 4),
            ('Physical Affection', 'physical-affection', 'Closeness without an agenda', 'heart', 5)
        ON CONFLICT (slug) DO NOTHING`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("migration %d failed: %w", i+1, err)
			}
			log.Printf("   - Migration %d skipped (already exists)", i+1)
		}
	}

	// Server-side functions used by the helping-hand repository
	log.Println("   - Creating helping-hand functions...")
	functions := []string{
		`CREATE OR REPLACE FUNCTION get_helping_hand_category_counts(p_user_id BIGINT)
        RETURNS TABLE(category_id BIGINT, category_name TEXT, suggestion_count BIGINT) AS $$
            SELECT c.id, c.name::TEXT, COUNT(s.id)
            FROM helping_hand_categories c
            LEFT JOIN helping_hand_suggestions s
                ON s.category_id = c.id AND s.user_id = p_user_id
            GROUP BY c.id, c.name, c.sort_order
            ORDER BY c.sort_order, c.name
        $$ LANGUAGE sql STABLE`,

		`CREATE OR REPLACE FUNCTION get_helping_hand_suggestions_with_category(p_user_id BIGINT, p_week_start DATE)
        RETURNS TABLE(
            id BIGINT, user_id BIGINT, category_id BIGINT, category_name TEXT,
            text TEXT, time_estimate VARCHAR, difficulty VARCHAR, week_start_date DATE,
            completed BOOLEAN, completed_at TIMESTAMPTZ, created_at TIMESTAMPTZ
        ) AS $$
            SELECT s.id, s.user_id, s.category_id, c.name::TEXT, s.text, s.time_estimate,
                   s.difficulty, s.week_start_date, s.completed, s.completed_at, s.created_at
            FROM helping_hand_suggestions s
            JOIN helping_hand_categories c ON c.id = s.category_id
            WHERE s.user_id = p_user_id AND s.week_start_date = p_week_start
            ORDER BY s.id
        $$ LANGUAGE sql STABLE`,

		`CREATE OR REPLACE FUNCTION get_partner_guess_about_me(p_user_id BIGINT)
        RETURNS TABLE(id BIGINT, partner_id BIGINT, question TEXT, guess TEXT, created_at TIMESTAMPTZ) AS $$
            SELECT g.id, g.guesser_id, g.question, g.guess, g.created_at
            FROM helping_hand_partner_guesses g
            WHERE g.subject_id = p_user_id
            ORDER BY g.created_at DESC
        $$ LANGUAGE sql STABLE`,

		`CREATE OR REPLACE FUNCTION get_active_partner_hints(p_user_id BIGINT)
        RETURNS TABLE(
            id BIGINT, user_id BIGINT, partner_id BIGINT, hint TEXT, category VARCHAR,
            active BOOLEAN, expires_at TIMESTAMPTZ, created_at TIMESTAMPTZ
        ) AS $$
            SELECT h.id, h.user_id, h.partner_id, h.hint, h.category, h.active, h.expires_at, h.created_at
            FROM helping_hand_partner_hints h
            WHERE h.partner_id = p_user_id AND h.active = true
              AND (h.expires_at IS NULL OR h.expires_at > NOW())
            ORDER BY h.created_at DESC
        $$ LANGUAGE sql STABLE`,
	}

	for i, fn := range functions {
		if _, err := db.Exec(fn); err != nil {
			return fmt.Errorf("function migration %d failed: %w", i+1, err)
		}
	}

	log.Println("   ✅ All migrations executed successfully")
	return nil
}
