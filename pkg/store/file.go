package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// FileStore persists layout records as one JSON file per instance under a
// root directory. Writes are atomic via temp file + rename, so a crash
// mid-write leaves the previous record intact.
type FileStore struct {
	rootPath string
}

// NewFileStore creates a FileStore rooted at rootPath.
func NewFileStore(rootPath string) *FileStore {
	return &FileStore{rootPath: rootPath}
}

func (s *FileStore) path(instanceID string) string {
	// Instance ids are opaque; keep them filesystem-safe.
	name := fmt.Sprintf("%x.json", instanceID)
	return filepath.Join(s.rootPath, name)
}

// Load returns the stored record for instanceID, or nil when absent or
// unreadable.
func (s *FileStore) Load(ctx context.Context, instanceID string) (*Record, error) {
	raw, err := os.ReadFile(s.path(instanceID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read layout %s: %w", instanceID, err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		log.Printf("Discarding corrupt layout file for %s: %v", instanceID, err)
		return nil, nil
	}
	return &rec, nil
}

// Save writes the record for instanceID atomically.
func (s *FileStore) Save(ctx context.Context, instanceID string, rec Record) error {
	if rec.LastUpdated == 0 {
		rec.LastUpdated = time.Now().UnixMilli()
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal layout record: %w", err)
	}

	if err := os.MkdirAll(s.rootPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.rootPath, err)
	}

	tempFile, err := os.CreateTemp(s.rootPath, "temp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tempFile.Write(raw); err != nil {
		tempFile.Close()
		os.Remove(tempFile.Name())
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		os.Remove(tempFile.Name())
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempFile.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	target := s.path(instanceID)
	if err := os.Rename(tempFile.Name(), target); err != nil {
		os.Remove(tempFile.Name())
		return fmt.Errorf("failed to rename temp file to %s: %w", target, err)
	}
	writesTotal.Inc()
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}
