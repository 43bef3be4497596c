// Package audio turns uploaded audio of arbitrary container format into
// the canonical PCM form the recognition engine expects: mono 16-bit
// samples at a fixed rate, decoded from a transient WAV produced by ffmpeg.
package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/wav"
	"github.com/rs/zerolog"

	"github.com/voice-scribe/backend/internal/apperr"
	"github.com/voice-scribe/backend/internal/ffmpeg"
)

// Blob is one uploaded or recorded audio payload. It lives only for the
// duration of the request that carried it.
type Blob struct {
	Data         []byte
	Filename     string  // client-declared filename, used only for the temp file suffix
	ContentType  string  // client-declared MIME type
	DurationHint float64 // optional client-measured duration in seconds
}

// Normalized is mono PCM audio at the engine's sample rate. It owns a
// backing WAV file on disk; callers must Remove() it when done.
type Normalized struct {
	Path       string
	SampleRate int
	Samples    []float32
	Duration   time.Duration
}

// Remove deletes the backing WAV file. Safe to call more than once.
func (n *Normalized) Remove() {
	if n.Path != "" {
		os.Remove(n.Path)
		n.Path = ""
	}
}

// Normalizer decodes and resamples uploads via ffmpeg. Each call uses its
// own temp files, so concurrent normalizations never contend.
type Normalizer struct {
	maxBytes   int64
	sampleRate int
	tmpDir     string
	log        zerolog.Logger
}

func NewNormalizer(maxBytes int64, sampleRate int, tmpDir string, log zerolog.Logger) *Normalizer {
	return &Normalizer{
		maxBytes:   maxBytes,
		sampleRate: sampleRate,
		tmpDir:     tmpDir,
		log:        log.With().Str("component", "normalizer").Logger(),
	}
}

// SampleRate returns the target PCM sample rate.
func (n *Normalizer) SampleRate() int { return n.sampleRate }

// Normalize validates the blob, decodes it through ffmpeg into a mono WAV
// at the target rate, and loads the PCM samples. All temp files except the
// returned WAV are removed before returning; the WAV too on any error.
func (n *Normalizer) Normalize(ctx context.Context, blob Blob) (*Normalized, error) {
	if len(blob.Data) == 0 {
		return nil, apperr.EmptyAudio()
	}
	if int64(len(blob.Data)) > n.maxBytes {
		return nil, apperr.SizeLimitExceeded(int64(len(blob.Data)), n.maxBytes)
	}

	inPath, err := n.writeUpload(blob)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer os.Remove(inPath)

	// Best-effort probe: catches containers without any audio stream
	// before spending a full decode on them.
	if probe, perr := ffmpeg.Probe(ctx, inPath); perr == nil {
		if !probe.HasAudioStream() {
			return nil, apperr.UnsupportedFormat("no audio stream in container", nil)
		}
		n.log.Debug().
			Float64("probed_duration", probe.DurationSeconds()).
			Str("content_type", blob.ContentType).
			Msg("probed upload")
	}

	outFile, err := os.CreateTemp(n.tmpDir, "normalized-*.wav")
	if err != nil {
		return nil, apperr.Internal(err)
	}
	outPath := outFile.Name()
	outFile.Close()

	if err := ffmpeg.Transcode(ctx, inPath, outPath, n.sampleRate); err != nil {
		os.Remove(outPath)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperr.UnsupportedFormat(transcodeDetail(err), err)
	}

	samples, rate, err := decodeWAV(outPath)
	if err != nil {
		os.Remove(outPath)
		return nil, apperr.UnsupportedFormat("decoded WAV is unreadable", err)
	}
	if len(samples) == 0 {
		os.Remove(outPath)
		return nil, apperr.EmptyAudio()
	}

	duration := time.Duration(float64(len(samples)) / float64(rate) * float64(time.Second))
	n.log.Debug().
		Int("samples", len(samples)).
		Dur("duration", duration).
		Msg("normalized audio")

	return &Normalized{
		Path:       outPath,
		SampleRate: rate,
		Samples:    samples,
		Duration:   duration,
	}, nil
}

// writeUpload stores the blob in a temp file, keeping the client's file
// extension so ffmpeg gets a container hint.
func (n *Normalizer) writeUpload(blob Blob) (string, error) {
	suffix := filepath.Ext(blob.Filename)
	f, err := os.CreateTemp(n.tmpDir, "upload-*"+suffix)
	if err != nil {
		return "", fmt.Errorf("create upload temp file: %w", err)
	}
	if _, err := f.Write(blob.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write upload temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close upload temp file: %w", err)
	}
	return f.Name(), nil
}

// decodeWAV reads a PCM WAV into float32 samples in [-1, 1).
func decodeWAV(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("read PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))

	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / scale
	}

	return samples, buf.Format.SampleRate, nil
}

func transcodeDetail(err error) string {
	if te, ok := err.(*ffmpeg.TranscodeError); ok && te.Stderr != "" {
		return te.Stderr
	}
	return "decoder failed"
}
