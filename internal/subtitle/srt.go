// Package subtitle converts recognized segments into the two transcript
// artifacts: flattened plain text and a numbered SRT cue document.
package subtitle

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Cue is one numbered, timestamped subtitle entry.
type Cue struct {
	Index int
	Start float64 // seconds
	End   float64 // seconds
	Text  string
}

// Result holds both transcript renderings. The SRT cue texts concatenate
// to the plain text modulo the joining whitespace.
type Result struct {
	PlainText    string
	SubtitleText string
}

// ErrNoCues is returned when Compose is called with no input. Empty
// recognition output is rejected upstream; reaching Compose with zero
// cues is a caller bug, not a tolerated state.
var ErrNoCues = errors.New("subtitle: no cues to compose")

// Compose renders the cue sequence into plain text and SRT. It is pure
// and deterministic: the same input always yields byte-identical output.
// No cue is ever dropped.
func Compose(cues []Cue) (Result, error) {
	if len(cues) == 0 {
		return Result{}, ErrNoCues
	}

	var parts []string
	var srt strings.Builder

	for i, cue := range cues {
		text := strings.TrimSpace(cue.Text)
		if text != "" {
			parts = append(parts, text)
		}

		startMs := truncateMs(cue.Start)
		endMs := truncateMs(cue.End)
		// A zero-length cue still needs start < end on the wire.
		if endMs <= startMs {
			endMs = startMs + 1
		}
		// Never run past the next cue's start once both are on the
		// millisecond grid.
		if i+1 < len(cues) {
			if next := truncateMs(cues[i+1].Start); endMs > next && next > startMs {
				endMs = next
			}
		}

		srt.WriteString(strconv.Itoa(i + 1))
		srt.WriteString("\n")
		srt.WriteString(formatMs(startMs))
		srt.WriteString(" --> ")
		srt.WriteString(formatMs(endMs))
		srt.WriteString("\n")
		srt.WriteString(text)
		srt.WriteString("\n\n")
	}

	return Result{
		PlainText:    strings.Join(parts, " "),
		SubtitleText: srt.String(),
	}, nil
}

// FormatTimecode renders seconds as an SRT timecode (HH:MM:SS,mmm).
// Milliseconds are truncated, never rounded up.
func FormatTimecode(seconds float64) string {
	return formatMs(truncateMs(seconds))
}

// truncateMs converts seconds to whole milliseconds by truncation. The
// epsilon absorbs binary float error just below the millisecond.
func truncateMs(seconds float64) int64 {
	if seconds <= 0 {
		return 0
	}
	return int64(math.Floor(seconds*1000 + 1e-6))
}

func formatMs(totalMs int64) string {
	h := totalMs / 3600000
	totalMs %= 3600000
	m := totalMs / 60000
	totalMs %= 60000
	s := totalMs / 1000
	ms := totalMs % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

var timestampRe = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}),(\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}),(\d{3})`)

// Parse reads SRT content back into cues. Used to validate composed
// documents; tolerant of CRLF line endings.
func Parse(content string) []Cue {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	var cues []Cue
	var current *Cue

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" {
			if current != nil {
				cues = append(cues, *current)
				current = nil
			}
			continue
		}

		if matches := timestampRe.FindStringSubmatch(line); len(matches) == 5 {
			if current != nil {
				cues = append(cues, *current)
			}
			current = &Cue{
				Index: len(cues) + 1,
				Start: parseTimecode(matches[1], matches[2]),
				End:   parseTimecode(matches[3], matches[4]),
			}
			continue
		}

		// A bare number before a timestamp line is the cue index.
		if _, err := strconv.Atoi(line); err == nil && current == nil {
			continue
		}

		if current != nil {
			if current.Text != "" {
				current.Text += "\n"
			}
			current.Text += line
		}
	}

	if current != nil {
		cues = append(cues, *current)
	}

	return cues
}

func parseTimecode(hms, ms string) float64 {
	var h, m, s int
	fmt.Sscanf(hms, "%d:%d:%d", &h, &m, &s)
	msec, _ := strconv.Atoi(ms)
	return float64(h*3600+m*60+s) + float64(msec)/1000.0
}
