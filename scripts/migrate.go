package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/database"
	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewDB(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Printf("✅ Database connected successfully (%s)", database.Dialect(db))

	// Apply embedded migrations, then repair legacy tables
	log.Println("🔄 Applying migrations...")
	n, err := database.Migrate(db, logger)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	columnType, err := database.ColumnType(db, database.TranscriptsTable, "user_id")
	if err != nil {
		log.Printf("⚠️  Could not inspect transcripts.user_id: %v", err)
	} else {
		log.Printf("🔎 transcripts.user_id column type: %s", columnType)
	}

	log.Printf("✅ Successfully applied %d migration(s)!\n", n)
	os.Exit(0)
}
