package ffmpeg

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
)

type ProbeResult struct {
	Format  ProbeFormat   `json:"format"`
	Streams []ProbeStream `json:"streams"`
}

type ProbeFormat struct {
	Filename string `json:"filename"`
	Duration string `json:"duration"`
	Size     string `json:"size"`
	BitRate  string `json:"bit_rate"`
}

type ProbeStream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"` // video, audio, subtitle
	Duration   string `json:"duration,omitempty"`
	BitRate    string `json:"bit_rate,omitempty"`
	SampleRate string `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
}

// Probe runs ffprobe on the given file and returns the parsed result.
func Probe(ctx context.Context, filePath string) (*ProbeResult, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var result ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// HasAudioStream reports whether the probed container carries an audio stream.
func (r *ProbeResult) HasAudioStream() bool {
	for _, s := range r.Streams {
		if s.CodecType == "audio" {
			return true
		}
	}
	return false
}

// fallbackBitRate is assumed when the container reports neither a duration
// nor a bit rate. Compressed speech audio typically lands around 96 kbps.
const fallbackBitRate = 96 * 1024

// DurationSeconds resolves the media duration from probe data, trying the
// container duration first, then per-stream durations, then a bit-rate
// estimate, and finally a size-based estimate at an assumed bit rate.
// Returns 0 when nothing in the probe allows even a guess.
func (r *ProbeResult) DurationSeconds() float64 {
	if d, err := strconv.ParseFloat(r.Format.Duration, 64); err == nil && d > 0 {
		return d
	}

	for _, s := range r.Streams {
		if d, err := strconv.ParseFloat(s.Duration, 64); err == nil && d > 0 {
			return d
		}
	}

	size, _ := strconv.ParseInt(r.Format.Size, 10, 64)
	if size <= 0 {
		return 0
	}
	bitRate, _ := strconv.ParseInt(r.Format.BitRate, 10, 64)
	if bitRate <= 0 {
		bitRate = fallbackBitRate
	}
	return float64(size*8) / float64(bitRate)
}
