package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDisplayName(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+ \d{4}$`)

	for i := 0; i < 20; i++ {
		name, err := GenerateDisplayName()
		require.NoError(t, err)
		assert.Regexp(t, pattern, name)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Market Women Ajo":        "market-women-ajo",
		"  Lagos -- Savers!! ":    "lagos-savers",
		"Family & Friends (2026)": "family-friends-2026",
		"already-a-slug":          "already-a-slug",
	}

	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}
