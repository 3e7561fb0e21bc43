// services/display.go - eInk panel update via epdraw
package services

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// DisplayService pushes a rendered image to the eInk panel by invoking the
// epdraw tool.
type DisplayService struct {
	epdrawPath string
	vcom       string
	log        *zap.Logger
}

func NewDisplayService(epdrawPath, vcom string, log *zap.Logger) *DisplayService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DisplayService{epdrawPath: epdrawPath, vcom: vcom, log: log}
}

// VCOMArg converts the configured VCOM voltage to the form epdraw expects:
// the sign is carried by the hardware, so "-2.51" is passed as "2.51".
func (s *DisplayService) VCOMArg() string {
	v := strings.ReplaceAll(s.vcom, "-", "")
	if v == "" {
		return "251"
	}
	return v
}

// Show draws the image on the panel. Mode 2 (GC16) is required for the
// Waveshare 10.3" IT8951 display.
func (s *DisplayService) Show(ctx context.Context, imagePath string) error {
	s.log.Info("updating eInk display",
		zap.String("image", imagePath),
		zap.String("vcom", s.VCOMArg()))

	cmd := exec.CommandContext(ctx, s.epdrawPath, imagePath, s.VCOMArg(), "2")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("epdraw failed: %w: %s", err, out)
	}

	s.log.Info("display updated", zap.String("image", imagePath))
	return nil
}
