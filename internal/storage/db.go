package storage

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type DB struct {
	connection *sql.DB
}

func NewDB(dataSourceName string) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &DB{connection: db}, nil
}

func (db *DB) Close() {
	if err := db.connection.Close(); err != nil {
		log.Println("Error closing the database connection:", err)
	}
}

// GetConnection returns the underlying database connection for advanced queries
func (db *DB) GetConnection() *sql.DB {
	return db.connection
}

// EnsureSchema creates the tables the reference server needs if they are
// missing. Good enough for development; production deployments should run
// proper migrations.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS requirements (
			id UUID PRIMARY KEY,
			role TEXT NOT NULL,
			vacancy_count INT NOT NULL,
			experience TEXT NOT NULL DEFAULT '',
			salary_range TEXT NOT NULL DEFAULT '',
			job_description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			raised_by TEXT NOT NULL DEFAULT '',
			reviewed_by TEXT,
			review_reason TEXT,
			created_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			mobile TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT '',
			current_stage TEXT NOT NULL,
			requirement_id UUID NOT NULL REFERENCES requirements(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS candidate_timeline (
			id UUID PRIMARY KEY,
			candidate_id UUID NOT NULL REFERENCES candidates(id),
			action TEXT NOT NULL,
			at TIMESTAMPTZ NOT NULL,
			by_user TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			seq BIGSERIAL
		)`,
		`CREATE TABLE IF NOT EXISTS cv_files (
			id UUID PRIMARY KEY,
			candidate_id UUID NOT NULL REFERENCES candidates(id),
			filename TEXT NOT NULL,
			file_size BIGINT NOT NULL,
			parsed_text TEXT NOT NULL DEFAULT '',
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.connection.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
