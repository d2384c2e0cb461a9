package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage implements Storage for the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// SaveAnalysis stores an analysis artifact locally
func (s *LocalStorage) SaveAnalysis(ctx context.Context, analysisID uuid.UUID, data []byte) (string, error) {
	storagePath := analysisStoragePath(analysisID)
	fullPath := filepath.Join(s.basePath, storagePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write analysis file: %w", err)
	}

	return storagePath, nil
}

// LoadAnalysis retrieves an analysis artifact from local storage
func (s *LocalStorage) LoadAnalysis(ctx context.Context, storagePath string) ([]byte, error) {
	fullPath := filepath.Join(s.basePath, storagePath)

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("analysis not found: %s", storagePath)
		}
		return nil, fmt.Errorf("failed to read analysis file: %w", err)
	}

	return data, nil
}

// DeleteAnalysis removes an analysis artifact from local storage
func (s *LocalStorage) DeleteAnalysis(ctx context.Context, storagePath string) error {
	fullPath := filepath.Join(s.basePath, storagePath)

	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete analysis file: %w", err)
	}

	return nil
}
