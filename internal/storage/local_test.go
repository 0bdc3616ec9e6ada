package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/routinnet/routix-platform-ai/internal/config"
	"github.com/routinnet/routix-platform-ai/internal/domain"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(config.StorageConfig{
		UploadDir:     t.TempDir(),
		MaxUploadSize: 1 << 20,
		AllowedTypes:  []string{"image/png", "image/jpeg"},
	})
	if err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store
}

func TestSaveURLResolvesUnderBaseDir(t *testing.T) {
	store := newTestStore(t)

	content := "png-bytes"
	stored, err := store.Save("user-1", "cat.png", "image/png", int64(len(content)), strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The static route strips "/static" and resolves the remainder
	// against BaseDir; the file must exist exactly there.
	rel, ok := strings.CutPrefix(stored.URL, "/static/")
	if !ok {
		t.Fatalf("url %q not under /static/", stored.URL)
	}
	onDisk := filepath.Join(store.BaseDir(), filepath.FromSlash(rel))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("url %q does not map to a stored file: %v", stored.URL, err)
	}
	if string(data) != content {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestSaveRejectsBadUploads(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name        string
		contentType string
		size        int64
	}{
		{"disallowed type", "application/zip", 10},
		{"empty file", "image/png", 0},
		{"oversized file", "image/png", 2 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save("user-1", "f.bin", tt.contentType, tt.size, strings.NewReader("x"))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !domain.IsInvalidInput(err) {
				t.Fatalf("expected invalid input error, got %v", err)
			}
		})
	}
}

func TestDeleteRemovesStoredFile(t *testing.T) {
	store := newTestStore(t)

	stored, err := store.Save("user-1", "cat.png", "image/png", 3, strings.NewReader("abc"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Delete("user-1", stored.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := store.Delete("user-1", stored.ID); !domain.IsNotFound(err) {
		t.Fatalf("expected not found on double delete, got %v", err)
	}
}
