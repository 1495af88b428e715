package voice

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const defaultTranscodeTimeout = 60 * time.Second

// FFmpegTranscoder shells out to ffmpeg to convert the Telegram OGG/Opus
// voice note into a container the transcription service accepts.
// Malformed input fails hard; there are no retries.
type FFmpegTranscoder struct {
	binary  string
	timeout time.Duration
}

func NewFFmpegTranscoder() *FFmpegTranscoder {
	return &FFmpegTranscoder{
		binary:  "ffmpeg",
		timeout: defaultTranscodeTimeout,
	}
}

func (t *FFmpegTranscoder) Transcode(ctx context.Context, src, dst string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.binary, "-y", "-i", src, dst)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("ffmpeg timed out after %s", t.timeout)
		}
		return fmt.Errorf("ffmpeg: %v: %s", err, lastLine(stderr.String()))
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
