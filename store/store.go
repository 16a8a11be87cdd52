// store/store.go
package store

import (
	"context"

	"github.com/beratech/payhero-backend/config"
	"github.com/beratech/payhero-backend/models"
)

// TransactionStore is the durable, append-only transaction history. Entries
// are never mutated or deleted; List returns them in append order.
type TransactionStore interface {
	Append(ctx context.Context, entry models.TransactionLogEntry) error
	List(ctx context.Context) ([]models.TransactionLogEntry, error)
	Close() error
}

// New selects a store implementation from configuration: Postgres when a
// database URL is present, the local file store otherwise.
func New(cfg *config.Config) (TransactionStore, error) {
	if cfg.DatabaseURL != "" {
		return NewPostgresStore(cfg.DatabaseURL)
	}
	return NewFileStore(cfg.TransactionLogFile)
}
