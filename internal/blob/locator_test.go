package blob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocatorBothShapesResolveIdentically(t *testing.T) {
	locators := []string{
		"s3://study-files/uploads/user-1/notes.pdf",
		"https://study-files.s3.eu-west-2.amazonaws.com/uploads/user-1/notes.pdf",
	}
	for _, locator := range locators {
		bucket, key, err := ParseLocator(locator)
		require.NoError(t, err, locator)
		assert.Equal(t, "study-files", bucket, locator)
		assert.Equal(t, "uploads/user-1/notes.pdf", key, locator)
	}
}

func TestParseLocatorRejectsOtherShapes(t *testing.T) {
	for _, locator := range []string{
		"",
		"s3://bucket-only",
		"s3:///no-bucket/key",
		"https://youtu.be/abcDEFghi12",
		"https://example.com/file.pdf",
		"/local/path/file.pdf",
	} {
		_, _, err := ParseLocator(locator)
		assert.ErrorIs(t, err, ErrBadLocator, locator)
	}
}
