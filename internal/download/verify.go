package download

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	ffprobe "gopkg.in/vansante/go-ffprobe.v2"
)

const probeTimeout = 5 * time.Second

// verifyVideo checks that path holds a readable video stream. The check
// is skipped when ffprobe is not installed.
func verifyVideo(path string) error {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	data, err := ffprobe.ProbeURL(ctx, path)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}
	if data.FirstVideoStream() == nil {
		return fmt.Errorf("no video stream in %s", path)
	}
	return nil
}
