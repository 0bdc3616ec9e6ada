package ai

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/domain/entity"
)

const (
	thumbWidth  = 1280
	thumbHeight = 720
)

// Placeholder fill per algorithm, until a real rendering farm is wired.
var algorithmColors = map[string]color.RGBA{
	"basic":   {R: 0x4a, G: 0x90, B: 0xd9, A: 0xff},
	"premium": {R: 0x8e, G: 0x44, B: 0xad, A: 0xff},
	"pro":     {R: 0xe6, G: 0x7e, B: 0x22, A: 0xff},
}

// generator renders thumbnail jobs. The current implementation stands
// in for the real rendering farm: it spends time proportional to the
// algorithm cost and writes a placeholder image under resultDir, served
// by the /static route.
type generator struct {
	stepDelay time.Duration
	resultDir string
	logger    *slog.Logger
}

// NewGenerator builds the domain.ThumbnailGenerator. Results go under
// staticDir/results so the returned URLs resolve through the /static
// route.
func NewGenerator(stepDelay time.Duration, staticDir string, logger *slog.Logger) (domain.ThumbnailGenerator, error) {
	if stepDelay <= 0 {
		stepDelay = 500 * time.Millisecond
	}
	resultDir := filepath.Join(staticDir, "results")
	if err := os.MkdirAll(resultDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create result dir: %w", err)
	}
	return &generator{stepDelay: stepDelay, resultDir: resultDir, logger: logger}, nil
}

func (g *generator) Generate(ctx context.Context, gen *entity.Generation, algo *entity.Algorithm) (string, map[string]any, error) {
	steps := algo.CostCredits
	if steps < 1 {
		steps = 1
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return "", nil, ctx.Err()
		case <-time.After(g.stepDelay):
		}
	}

	filename := gen.ID + ".png"
	if err := g.writeThumbnail(filepath.Join(g.resultDir, filename), algo.Name); err != nil {
		return "", nil, fmt.Errorf("failed to write result: %w", err)
	}

	url := "/static/results/" + filename
	meta := map[string]any{
		"width":     thumbWidth,
		"height":    thumbHeight,
		"algorithm": algo.Name,
	}

	g.logger.Debug("generation rendered", "generation_id", gen.ID, "algorithm", algo.Name)
	return url, meta, nil
}

func (g *generator) writeThumbnail(path, algorithm string) error {
	fill, ok := algorithmColors[algorithm]
	if !ok {
		fill = color.RGBA{R: 0x7f, G: 0x8c, B: 0x8d, A: 0xff}
	}

	img := image.NewRGBA(image.Rect(0, 0, thumbWidth, thumbHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
