package ffmpeg

import "testing"

func TestDurationSecondsFromFormat(t *testing.T) {
	r := &ProbeResult{Format: ProbeFormat{Duration: "12.345"}}
	if d := r.DurationSeconds(); d != 12.345 {
		t.Errorf("expected 12.345, got %v", d)
	}
}

func TestDurationSecondsFromStream(t *testing.T) {
	r := &ProbeResult{
		Format: ProbeFormat{Duration: "N/A"},
		Streams: []ProbeStream{
			{CodecType: "video"},
			{CodecType: "audio", Duration: "7.5"},
		},
	}
	if d := r.DurationSeconds(); d != 7.5 {
		t.Errorf("expected 7.5, got %v", d)
	}
}

func TestDurationSecondsFromBitRate(t *testing.T) {
	// 128 kbps, 160000 bytes -> 10 seconds
	r := &ProbeResult{Format: ProbeFormat{Size: "160000", BitRate: "128000"}}
	if d := r.DurationSeconds(); d != 10.0 {
		t.Errorf("expected 10.0, got %v", d)
	}
}

func TestDurationSecondsSizeEstimate(t *testing.T) {
	// No bit rate: falls back to the assumed 96 kbps.
	r := &ProbeResult{Format: ProbeFormat{Size: "122880"}}
	want := float64(122880*8) / float64(96*1024)
	if d := r.DurationSeconds(); d != want {
		t.Errorf("expected %v, got %v", want, d)
	}
}

func TestDurationSecondsUnknown(t *testing.T) {
	r := &ProbeResult{}
	if d := r.DurationSeconds(); d != 0 {
		t.Errorf("expected 0 for empty probe, got %v", d)
	}
}

func TestHasAudioStream(t *testing.T) {
	r := &ProbeResult{Streams: []ProbeStream{{CodecType: "video"}}}
	if r.HasAudioStream() {
		t.Error("video-only probe should not report an audio stream")
	}
	r.Streams = append(r.Streams, ProbeStream{CodecType: "audio", CodecName: "opus"})
	if !r.HasAudioStream() {
		t.Error("expected audio stream to be detected")
	}
}
