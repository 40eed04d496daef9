package youtube

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// A missing sentence ending is patched with a period when the pause before
	// the next segment exceeds this gap (or the next segment starts with a
	// capital letter).
	sentenceGap = 2.0
	// A pause longer than this starts a new paragraph.
	paragraphGap = 3.0
)

var (
	whitespaceRun    = regexp.MustCompile(`\s+`)
	spaceBeforePunct = regexp.MustCompile(`\s+([.!?])`)
	missingSpace     = regexp.MustCompile(`([.!?])\s*([a-z])`)
)

// FormatTranscript reflows raw caption segments into readable paragraphs.
// Segments rarely carry punctuation, so two timing heuristics patch sentence
// endings and paragraph breaks, and a final pass normalizes whitespace and
// spacing around punctuation.
func FormatTranscript(segments []Segment) string {
	if len(segments) == 0 {
		return ""
	}
	var (
		paragraphs []string
		current    []string
		lastEnd    float64
	)
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, cleanParagraph(strings.Join(current, " ")))
			current = nil
		}
	}
	for i, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if !strings.ContainsAny(text[len(text)-1:], ".!?") {
			if i+1 < len(segments) {
				next := strings.TrimSpace(segments[i+1].Text)
				gap := segments[i+1].Start - (seg.Start + seg.Duration)
				if startsUpper(next) || gap > sentenceGap {
					text += "."
				}
			}
		}
		text = capitalize(text)
		if lastEnd > 0 && seg.Start-lastEnd > paragraphGap {
			flush()
		}
		current = append(current, text)
		lastEnd = seg.Start + seg.Duration
	}
	flush()
	return strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
}

func cleanParagraph(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = missingSpace.ReplaceAllString(text, "$1 $2")
	return strings.TrimSpace(text)
}

func startsUpper(text string) bool {
	if text == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsUpper(r)
}

func capitalize(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if unicode.IsLower(r) {
		return string(unicode.ToUpper(r)) + text[size:]
	}
	return text
}
