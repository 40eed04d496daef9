package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsRoundTrip(t *testing.T) {
	options := []string{"Paris", "London", "Berlin", "Madrid"}
	stored := JoinOptions(options)
	assert.Equal(t, options, SplitOptions(stored))
}

func TestSplitOptionsEmpty(t *testing.T) {
	assert.Nil(t, SplitOptions(""))
}

func TestResourceTypeValid(t *testing.T) {
	for _, typ := range []ResourceType{TypeYouTubeLink, TypeDocument, TypeAudio, TypeText, TypeImageSet} {
		assert.True(t, typ.Valid(), string(typ))
	}
	assert.False(t, ResourceType("podcast").Valid())
	assert.False(t, ResourceType("").Valid())
}
