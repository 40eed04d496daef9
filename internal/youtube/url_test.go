package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	urls := []string{
		"https://youtu.be/abcDEFghi12",
		"https://www.youtube.com/watch?v=abcDEFghi12",
		"https://m.youtube.com/watch?v=abcDEFghi12",
		"https://www.youtube.com/embed/abcDEFghi12",
		"https://www.youtube.com/watch?list=PLx&v=abcDEFghi12",
	}
	for _, url := range urls {
		id, err := ExtractVideoID(url)
		require.NoError(t, err, url)
		assert.Equal(t, "abcDEFghi12", id, url)
	}
}

func TestExtractVideoIDUnparseable(t *testing.T) {
	for _, url := range []string{
		"https://example.com/watch?v=abcDEFghi12",
		"https://www.youtube.com/watch?v=short",
		"not a url",
		"",
	} {
		_, err := ExtractVideoID(url)
		assert.ErrorIs(t, err, ErrUnparseableURL, url)
	}
}
