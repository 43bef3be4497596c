package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Port)
	}
	if cfg.SampleRate != 16000 {
		t.Errorf("expected default sample rate 16000, got %d", cfg.SampleRate)
	}
	if cfg.WhisperModel != "large-v3-turbo" {
		t.Errorf("unexpected default model %q", cfg.WhisperModel)
	}
	if cfg.GateWaitTimeout != 2*time.Minute {
		t.Errorf("unexpected gate wait %v", cfg.GateWaitTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("unexpected default CORS origins %v", cfg.CORSOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WHISPER_MODEL", "base")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("INFERENCE_TIMEOUT", "90s")
	t.Setenv("CORS_ORIGINS", "http://localhost:4001, http://127.0.0.1:3000")

	cfg := Load()

	if cfg.Port != 9000 {
		t.Errorf("PORT override ignored: %d", cfg.Port)
	}
	if cfg.WhisperModel != "base" {
		t.Errorf("WHISPER_MODEL override ignored: %q", cfg.WhisperModel)
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Errorf("MAX_UPLOAD_BYTES override ignored: %d", cfg.MaxUploadBytes)
	}
	if cfg.InferenceTimeout != 90*time.Second {
		t.Errorf("INFERENCE_TIMEOUT override ignored: %v", cfg.InferenceTimeout)
	}
	want := []string{"http://localhost:4001", "http://127.0.0.1:3000"}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != want[0] || cfg.CORSOrigins[1] != want[1] {
		t.Errorf("CORS_ORIGINS override ignored: %v", cfg.CORSOrigins)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("INFERENCE_TIMEOUT", "soon")

	cfg := Load()
	if cfg.Port != 8000 {
		t.Errorf("malformed PORT should fall back, got %d", cfg.Port)
	}
	if cfg.InferenceTimeout != 10*time.Minute {
		t.Errorf("malformed INFERENCE_TIMEOUT should fall back, got %v", cfg.InferenceTimeout)
	}
}
