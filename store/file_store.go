// store/file_store.go
package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/beratech/payhero-backend/models"
)

// FileStore keeps the transaction log as newline-delimited JSON in a single
// file. Appends are serialized with a mutex and written with O_APPEND, so
// the log is never rewritten in place.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore opens (creating if absent) the transaction log file.
func NewFileStore(path string) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction log %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close transaction log %s: %w", path, err)
	}
	return &FileStore{path: path}, nil
}

// Append writes one entry to the end of the log. The entry ID is assigned
// here if the caller left it empty.
func (s *FileStore) Append(ctx context.Context, entry models.TransactionLogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode transaction entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open transaction log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append transaction entry: %w", err)
	}
	return f.Sync()
}

// List reads the whole log into memory and returns entries in append order.
func (s *FileStore) List(ctx context.Context) ([]models.TransactionLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.TransactionLogEntry{}, nil
		}
		return nil, fmt.Errorf("failed to open transaction log: %w", err)
	}
	defer f.Close()

	entries := []models.TransactionLogEntry{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry models.TransactionLogEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("corrupt transaction log line: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction log: %w", err)
	}

	return entries, nil
}

// Close is a no-op; the file is opened per operation.
func (s *FileStore) Close() error {
	return nil
}
