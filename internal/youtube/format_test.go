package youtube

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTranscriptParagraphBreakOnGap(t *testing.T) {
	segments := []Segment{
		{Text: "hello world", Start: 0, Duration: 1},
		{Text: "Next thought", Start: 5, Duration: 1},
	}
	out := FormatTranscript(segments)

	paragraphs := strings.Split(out, "\n\n")
	require.Len(t, paragraphs, 2)
	assert.Equal(t, "Hello world.", paragraphs[0])
	assert.Equal(t, "Next thought", paragraphs[1])
}

func TestFormatTranscriptJoinsCloseSegments(t *testing.T) {
	segments := []Segment{
		{Text: "so today we are", Start: 0, Duration: 2},
		{Text: "talking about goroutines", Start: 2, Duration: 2},
	}
	out := FormatTranscript(segments)
	assert.Equal(t, "So today we are Talking about goroutines", out)
	assert.NotContains(t, out, "\n\n")
}

func TestFormatTranscriptPeriodOnLongPause(t *testing.T) {
	// The pause exceeds the sentence gap but not the paragraph gap, so the
	// segments stay in one paragraph with a patched period.
	segments := []Segment{
		{Text: "first point", Start: 0, Duration: 1},
		{Text: "second point", Start: 3.5, Duration: 1},
	}
	out := FormatTranscript(segments)
	assert.Equal(t, "First point. Second point", out)
}

func TestFormatTranscriptKeepsExistingPunctuation(t *testing.T) {
	segments := []Segment{
		{Text: "Is this working?", Start: 0, Duration: 1},
		{Text: "Yes it is.", Start: 1, Duration: 1},
	}
	out := FormatTranscript(segments)
	assert.Equal(t, "Is this working? Yes it is.", out)
}

func TestFormatTranscriptNormalizesWhitespace(t *testing.T) {
	segments := []Segment{
		{Text: "  spaced   out  text .", Start: 0, Duration: 1},
	}
	out := FormatTranscript(segments)
	assert.Equal(t, "Spaced out text.", out)
}

func TestFormatTranscriptEmpty(t *testing.T) {
	assert.Equal(t, "", FormatTranscript(nil))
	assert.Equal(t, "", FormatTranscript([]Segment{{Text: "   ", Start: 0, Duration: 1}}))
}
