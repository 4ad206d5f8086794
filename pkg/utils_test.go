package pkg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandString(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		s := RandString(8)
		assert.Len(t, s, 8)
		for _, r := range s {
			assert.True(t, strings.ContainsRune(letters, r), "unexpected %q", r)
		}
		seen[s] = true
	}
	assert.Greater(t, len(seen), 90)
}
