package main

import (
	"log"
	"os"

	"pcru-chatbot-be/internal/model"
	"pcru-chatbot-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting knowledge-base migration...")

	// 2. Custom join table must be registered before AutoMigrate.
	if err := db.SetupJoinTable(&model.QuestionAnswer{}, "Keywords", &model.AnswerKeyword{}); err != nil {
		color.Red("Error: SetupJoinTable failed: %v", err)
		os.Exit(1)
	}

	models := []interface{}{
		&model.Organization{},
		&model.Officer{},
		&model.Category{},
		&model.CategoryContact{},
		&model.Keyword{},
		&model.QuestionAnswer{},
		&model.AnswerKeyword{},
		&model.Stopword{},
		&model.KeywordSynonym{},
		&model.NegativeKeyword{},
		&model.SemanticSimilarity{},
	}

	color.Yellow("Step 1: AutoMigrate %d tables", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 3. Indexes AutoMigrate cannot express.
	color.Yellow("Step 2: Creating lookup indexes")
	postMigrationSQL := []string{
		`CREATE INDEX IF NOT EXISTS idx_keyword_synonyms_active_input ON keyword_synonyms (lower(input_word)) WHERE is_active;`,
		`CREATE INDEX IF NOT EXISTS idx_negative_keywords_active ON negative_keywords (word) WHERE is_active;`,
		`CREATE INDEX IF NOT EXISTS idx_categories_root ON categories (id) WHERE parent_id IS NULL;`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	color.Green("✅ Success: Database migration completed.")
}
