// Package youtube fetches caption transcripts and metadata for YouTube
// videos and reflows caption segments into readable paragraphs.
package youtube

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrUnparseableURL marks a URL no video id could be extracted from.
var ErrUnparseableURL = errors.New("could not extract video id from url")

// Accepted URL shapes: youtube.com/watch?v=ID, youtu.be/ID,
// youtube.com/embed/ID, m.youtube.com/watch?v=ID, and watch URLs where v= is
// not the first query parameter. Video ids are always 11 characters.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([a-zA-Z0-9_-]{11})`),
}

// ExtractVideoID parses the 11-character video id out of the accepted URL
// shapes.
func ExtractVideoID(url string) (string, error) {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnparseableURL, url)
}
