package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHashtags(t *testing.T) {
	assert.Equal(t, []string{"golang", "news"}, ExtractHashtags("shipping #Golang today #news #golang"))
	assert.Nil(t, ExtractHashtags("no tags here"))
	assert.Equal(t, []string{"日本語"}, ExtractHashtags("unicode #日本語 tag"))
}

func TestExtractMediaUrls(t *testing.T) {
	content := "two cats [media|https://cdn.example.com/a.jpg] being cats [media|https://cdn.example.com/b.png]"
	assert.Equal(t, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.png",
	}, ExtractMediaUrls(content))
	assert.Nil(t, ExtractMediaUrls("plain text"))
}

func TestHasMedia(t *testing.T) {
	assert.True(t, HasMedia("look [media|https://cdn.example.com/a.jpg]"))
	assert.False(t, HasMedia("look [media|]"))
	assert.False(t, HasMedia("no attachment"))
}

func TestStripMediaRefs(t *testing.T) {
	assert.Equal(t, "two cats  being cats",
		StripMediaRefs("two cats [media|https://a.jpg] being cats [media|https://b.png]"))
	assert.Equal(t, "untouched", StripMediaRefs("untouched"))
}
