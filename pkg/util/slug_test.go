package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"spaces", "Red Gift Box", "red-gift-box"},
		{"punctuation", "  Tea & Coffee!! ", "tea-coffee"},
		{"mixed script", "礼盒 Kraft 2024", "kraft-2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in, "tag"))
		})
	}
}

func TestSlugify_NoASCII(t *testing.T) {
	slug := Slugify("中秋礼盒", "tag")
	assert.True(t, strings.HasPrefix(slug, "tag-"))
	assert.True(t, IsSlug(slug))
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("about-us"))
	assert.False(t, IsSlug("About Us"))
	assert.False(t, IsSlug("-lead"))
	assert.False(t, IsSlug(""))
}
