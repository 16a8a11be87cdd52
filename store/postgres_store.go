// store/postgres_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/lib/pq"

	"github.com/beratech/payhero-backend/models"
)

// PostgresStore implements TransactionStore on PostgreSQL. The transactions
// table is append-only with a BIGSERIAL key, so append order is the key
// order and concurrency control belongs to the database.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to PostgreSQL and ensures the schema exists.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &PostgresStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS transactions (
			id         BIGSERIAL PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			phone      TEXT NOT NULL,
			amount     INTEGER NOT NULL,
			status     TEXT NOT NULL,
			message    TEXT NOT NULL,
			reference  TEXT NOT NULL DEFAULT ''
		)`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to ensure transactions table: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Append inserts one transaction record.
func (s *PostgresStore) Append(ctx context.Context, entry models.TransactionLogEntry) error {
	query := `
		INSERT INTO transactions (created_at, phone, amount, status, message, reference)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		entry.Timestamp,
		entry.Phone,
		entry.Amount,
		entry.Status,
		entry.Message,
		entry.Reference,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// List returns all transaction records in append order.
func (s *PostgresStore) List(ctx context.Context) ([]models.TransactionLogEntry, error) {
	query := `
		SELECT id, created_at, phone, amount, status, message, reference
		FROM transactions
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	entries := []models.TransactionLogEntry{}
	for rows.Next() {
		var entry models.TransactionLogEntry
		var id int64
		if err := rows.Scan(&id, &entry.Timestamp, &entry.Phone, &entry.Amount,
			&entry.Status, &entry.Message, &entry.Reference); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		entry.ID = strconv.FormatInt(id, 10)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction rows: %w", err)
	}

	return entries, nil
}
