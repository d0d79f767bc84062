// internal/report/frames.go
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwiater/aquabench/internal/harness"
)

// FrameCaptured persists raw RGBA8 frames for offline inspection. Only every
// Nth frame and the run's last frame are written; the rest are dropped here
// after the harness has used them for quality scoring.
func (e *Exporter) FrameCaptured(cfg harness.TestConfig, runIndex int, frameIndex uint32, pixels []byte, lastFrame bool) error {
	if len(pixels) == 0 {
		return nil
	}
	if int(frameIndex)%e.captureEveryN != 0 && !lastFrame {
		return nil
	}

	path := filepath.Join(e.outputDir, fmt.Sprintf("%s_run%d_frame%d.raw", cfg.Name, runIndex, frameIndex))
	if err := os.WriteFile(path, pixels, 0o644); err != nil {
		return fmt.Errorf("write frame dump %s: %w", path, err)
	}
	e.captureCount++
	return nil
}

// CaptureCount returns how many frame dumps this exporter has written.
func (e *Exporter) CaptureCount() int { return e.captureCount }
