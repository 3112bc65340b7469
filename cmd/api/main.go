package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/ashwiniraykar1997/speech-to-text-app/docs"
	pkgvalidator "github.com/ashwiniraykar1997/speech-to-text-app/pkg/validator"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/adapter/handler"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/adapter/repository"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/cache"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/database"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/external/supabase"
	httpmw "github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/http/middleware"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/metrics"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/storage"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/identity"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/live"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/transcript"
	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/config"
	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/jwt"
	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/stt"
)

// @title           Speech-to-Text API
// @version         1.0
// @description     Transcribes uploaded and live-recorded audio and persists transcripts to Supabase with a local database fallback

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	e.Use(metrics.Middleware())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")
	ctx := context.Background()

	// Initialize fallback database
	log.Printf("📦 Connecting to %s fallback database...", cfg.Database.Driver)
	db := connectFallback(ctx, cfg, logger)
	if db != nil {
		defer database.CloseDB(db)
	}

	// Initialize transcript stores
	log.Println("⚙️  Initializing transcript stores...")
	supabaseClient := supabase.NewClient(cfg.Supabase, cfg.Persistence.StoreTimeout, logger)
	if supabaseClient.Configured() {
		log.Printf("✅ Supabase primary store: %s", cfg.Supabase.BaseURL())
	} else {
		log.Println("⚠️  Supabase not configured, transcripts go to the fallback database")
	}
	primary := supabase.NewTranscriptStore(supabaseClient)

	var fallback *repository.TranscriptRepository
	if db != nil {
		kind := repository.DetectUserIDKind(db, cfg.Database.UserIDColumnType, logger)
		log.Printf("🔎 Fallback user_id column: %s", kind)
		fallback = repository.NewTranscriptRepository(db, kind, logger)
	} else {
		fallback = repository.NewTranscriptRepository(nil, repository.UserIDText, logger)
	}

	transcriptService := transcript.NewService(primary, fallback, cfg.Persistence.MismatchPolicy, cfg.Persistence.StoreTimeout, logger)
	clock := transcript.NewClock(nil)

	// Initialize identity resolver
	log.Println("🔑 Initializing identity resolver...")
	resolver := identity.NewResolver(
		supabaseClient,
		jwt.NewManager(cfg.Identity.JWTSecret, time.Hour),
		cfg.Identity.AllowClaimed,
		cfg.Identity.Timeout,
		logger,
	)
	if cfg.Identity.AllowClaimed {
		log.Println("⚠️  Unverified token identities are accepted (IDENTITY_ALLOW_CLAIMED=true)")
	}

	// Initialize transcription provider
	log.Println("🤖 Initializing AssemblyAI transcriber...")
	transcriber := stt.NewAssemblyAI(&cfg.Assembly, logger)
	if !transcriber.Configured() {
		log.Println("⚠️  ASSEMBLYAI_API_KEY not set, transcription endpoints return 503")
	}

	// Initialize live session registry
	sessionStore, closeStore := newSessionStore(ctx, cfg)
	defer closeStore()
	sessions := cache.NewSessionRepository(sessionStore, cfg.Redis.SessionTTL)

	// Initialize audio storage
	var (
		audio     handler.AudioStore
		artifacts live.ArtifactStore
	)
	if cfg.Storage.Enabled {
		log.Println("🗄️  Connecting to MinIO...")
		audioStore, err := storage.NewAudioStore(ctx, &cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize audio storage: %v", err)
		}
		audio, artifacts = audioStore, audioStore
		log.Printf("✅ Audio storage bucket: %s", cfg.Storage.BucketName)
	} else {
		log.Println("⚠️  Audio storage disabled, uploads are not kept")
	}

	liveService := live.NewService(sessions, transcriber, transcriptService, artifacts, clock, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(
		handler.NewHealthHandler(cfg.Server.Environment, transcriptService, transcriber),
		handler.NewTranscriptHandler(transcriptService, transcriber, audio, clock, logger),
		handler.NewLiveHandler(liveService, audio, handler.DefaultStreamInterval, logger),
		httpmw.Identify(resolver),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// connectFallback opens and migrates the fallback database. A failure leaves the fallback
// store unavailable instead of stopping the server.
func connectFallback(ctx context.Context, cfg *config.Config, logger *zap.Logger) *gorm.DB {
	db, err := database.NewDB(ctx, cfg, logger)
	if err != nil {
		log.Printf("❌ Fallback database unavailable: %v", err)
		return nil
	}

	if cfg.Database.AutoMigrate {
		log.Println("🔄 Applying embedded migrations...")
		n, err := database.Migrate(db, logger)
		if err != nil {
			log.Printf("❌ Failed to migrate fallback database: %v", err)
			_ = database.CloseDB(db)
			return nil
		}
		log.Printf("✅ Applied %d migration(s)", n)
	} else {
		log.Println("🔄 Skipping migrations; run scripts/migrate.go to manage the schema")
	}
	return db
}

// newSessionStore returns Redis when enabled, else an in-process store
func newSessionStore(ctx context.Context, cfg *config.Config) (cache.Store, func()) {
	if !cfg.Redis.Enabled {
		log.Println("📦 Live sessions kept in memory")
		store := cache.NewMemoryStore()
		return store, func() { _ = store.Close() }
	}

	log.Println("📦 Connecting to Redis...")
	client, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	store := cache.NewRedisStore(client)
	return store, func() { _ = store.Close() }
}
