package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/routinnet/routix-platform-ai/internal/config"
	"github.com/routinnet/routix-platform-ai/internal/domain"
)

// StoredFile describes one accepted upload.
type StoredFile struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// LocalStore keeps uploads on the local filesystem under one directory
// per user.
type LocalStore struct {
	baseDir      string
	maxSize      int64
	allowedTypes map[string]bool
}

// NewLocalStore prepares the upload directory.
func NewLocalStore(cfg config.StorageConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	allowed := make(map[string]bool, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[strings.ToLower(t)] = true
	}

	return &LocalStore{
		baseDir:      cfg.UploadDir,
		maxSize:      cfg.MaxUploadSize,
		allowedTypes: allowed,
	}, nil
}

// Save validates and persists one upload, returning its public URL.
func (s *LocalStore) Save(userID, filename, contentType string, size int64, r io.Reader) (*StoredFile, error) {
	if size <= 0 {
		return nil, domain.NewInvalidInputError("empty file")
	}
	if size > s.maxSize {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("file too large: %d bytes, limit is %d", size, s.maxSize))
	}
	if !s.allowedTypes[strings.ToLower(contentType)] {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("unsupported content type: %s", contentType))
	}

	id := uuid.New().String()
	ext := filepath.Ext(filename)
	userDir := filepath.Join(s.baseDir, userID)
	if err := os.MkdirAll(userDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create user dir: %w", err)
	}

	dst := filepath.Join(userDir, id+ext)
	f, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if written > s.maxSize {
		os.Remove(dst)
		return nil, domain.NewInvalidInputError("file exceeds size limit")
	}

	return &StoredFile{
		ID: id,
		// Served by the /static route, which strips its prefix and
		// resolves the rest against BaseDir.
		URL:         fmt.Sprintf("/static/%s/%s%s", userID, id, ext),
		Filename:    filename,
		ContentType: contentType,
		Size:        written,
	}, nil
}

// Delete removes a stored upload owned by the user.
func (s *LocalStore) Delete(userID, fileID string) error {
	userDir := filepath.Join(s.baseDir, userID)
	matches, err := filepath.Glob(filepath.Join(userDir, fileID+".*"))
	if err != nil || len(matches) == 0 {
		return domain.NewNotFoundError("File", fileID)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("failed to delete file: %w", err)
		}
	}
	return nil
}

// BaseDir exposes the root directory for static file serving.
func (s *LocalStore) BaseDir() string { return s.baseDir }
