package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// TranscodeError carries the ffmpeg stderr output for a failed decode so
// callers can classify unreadable input.
type TranscodeError struct {
	Stderr string
	Err    error
}

func (e *TranscodeError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ffmpeg: %s: %v", e.Stderr, e.Err)
	}
	return fmt.Sprintf("ffmpeg: %v", e.Err)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// Transcode decodes src (any container ffmpeg can read) into a mono
// PCM s16le WAV at dst, resampled to the given rate.
func Transcode(ctx context.Context, src, dst string, sampleRate int) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		"-vn", // no video
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", "1", // mono
		"-y", // overwrite
		dst,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return &TranscodeError{Stderr: strings.TrimSpace(string(output)), Err: err}
	}

	return nil
}
