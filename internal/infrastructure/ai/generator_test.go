package ai

import (
	"context"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestGeneratorWritesResultFile(t *testing.T) {
	staticDir := t.TempDir()
	gen, err := NewGenerator(time.Millisecond, staticDir, testLogger())
	if err != nil {
		t.Fatalf("failed to build generator: %v", err)
	}

	job := &entity.Generation{ID: "gen-1", Prompt: "epic gaming thumbnail"}
	algo := &entity.Algorithm{Name: "basic", CostCredits: 1}

	url, meta, err := gen.Generate(context.Background(), job, algo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The URL must resolve through the /static route to a real file.
	rel, ok := strings.CutPrefix(url, "/static/")
	if !ok {
		t.Fatalf("result url %q not under /static/", url)
	}
	f, err := os.Open(filepath.Join(staticDir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("result url %q does not map to a written file: %v", url, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("result is not a valid png: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != meta["width"].(int) || bounds.Dy() != meta["height"].(int) {
		t.Fatalf("image %dx%d does not match meta %+v", bounds.Dx(), bounds.Dy(), meta)
	}
}

func TestGeneratorHonorsCancellation(t *testing.T) {
	staticDir := t.TempDir()
	gen, err := NewGenerator(time.Hour, staticDir, testLogger())
	if err != nil {
		t.Fatalf("failed to build generator: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := gen.Generate(ctx, &entity.Generation{ID: "gen-1"}, &entity.Algorithm{Name: "basic", CostCredits: 1}); err == nil {
		t.Fatal("expected cancellation error")
	}

	entries, _ := os.ReadDir(filepath.Join(staticDir, "results"))
	if len(entries) != 0 {
		t.Fatal("cancelled generation wrote a result file")
	}
}
