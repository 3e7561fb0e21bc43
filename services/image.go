// services/image.go - Liturgical image rendering and cache
package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

// ImageService renders per-date liturgical images through an external
// render CLI and keeps them under <cacheDir>/images/<date>.<format>.
type ImageService struct {
	imagesDir string
	renderCmd string
	log       *zap.Logger
}

func NewImageService(cacheDir, renderCmd string, log *zap.Logger) (*ImageService, error) {
	if log == nil {
		log = zap.NewNop()
	}
	imagesDir := filepath.Join(cacheDir, "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("create image cache dir: %w", err)
	}
	return &ImageService{imagesDir: imagesDir, renderCmd: renderCmd, log: log}, nil
}

// CachedPath returns the cached image path for a date, if one exists.
func (s *ImageService) CachedPath(date, format string) (string, bool) {
	path := s.path(date, format)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Generate returns the cached image for a date or renders a new one.
func (s *ImageService) Generate(ctx context.Context, date, format string) (string, error) {
	if path, ok := s.CachedPath(date, format); ok {
		return path, nil
	}

	path := s.path(date, format)
	s.log.Info("rendering liturgical image",
		zap.String("date", date),
		zap.String("format", format))

	cmd := exec.CommandContext(ctx, s.renderCmd, "generate", date, "--output", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("render image for %s: %w: %s", date, err, out)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("render image for %s: file not created", date)
	}
	return path, nil
}

// ClearCache removes cached images, optionally for a single format, and
// reports how many files were deleted.
func (s *ImageService) ClearCache(format string) (int, error) {
	pattern := "*"
	if format != "" {
		pattern = "*." + format
	}
	files, err := filepath.Glob(filepath.Join(s.imagesDir, pattern))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			s.log.Error("remove cached image", zap.String("file", file), zap.Error(err))
			continue
		}
		removed++
	}
	s.log.Info("cleared image cache", zap.Int("removed", removed))
	return removed, nil
}

func (s *ImageService) path(date, format string) string {
	return filepath.Join(s.imagesDir, date+"."+format)
}
