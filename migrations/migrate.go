package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
)

type migration struct {
	version  int
	filename string
	content  string
}

func main() {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "addy_user"),
		getEnv("DB_PASSWORD", "addy_password"),
		getEnv("DB_NAME", "addy"),
		getEnv("DB_SSL_MODE", "disable"))

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			filename VARCHAR(255) NOT NULL,
			executed_at TIMESTAMP DEFAULT NOW()
		)
	`); err != nil {
		log.Fatal("Failed to create migrations table:", err)
	}

	var current int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		log.Fatal("Failed to get current version:", err)
	}

	pending, err := loadMigrations()
	if err != nil {
		log.Fatal("Failed to load migrations:", err)
	}

	for _, m := range pending {
		if m.version <= current {
			continue
		}
		log.Printf("Running migration %d: %s", m.version, m.filename)
		if err := apply(db, m); err != nil {
			log.Fatalf("Failed to run migration %d: %v", m.version, err)
		}
	}

	log.Println("All migrations completed successfully")
}

// loadMigrations reads NNN_name.sql files from the working directory.
func loadMigrations() ([]migration, error) {
	files, err := os.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var out []migration
	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		version, err := strconv.Atoi(strings.SplitN(file.Name(), "_", 2)[0])
		if err != nil {
			continue
		}
		content, err := os.ReadFile(file.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %v", file.Name(), err)
		}
		out = append(out, migration{version: version, filename: file.Name(), content: string(content)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// apply runs one migration and records it, both inside one transaction.
func apply(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.content); err != nil {
		return fmt.Errorf("failed to execute migration: %v", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, filename) VALUES ($1, $2)",
		m.version, m.filename,
	); err != nil {
		return fmt.Errorf("failed to record migration: %v", err)
	}
	return tx.Commit()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
