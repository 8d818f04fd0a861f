package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIntoChunks(t *testing.T) {
	t.Run("short text is a single trimmed chunk", func(t *testing.T) {
		chunks := splitIntoChunks("  hello world  ", 1000, 100)
		assert.Equal(t, []string{"hello world"}, chunks)
	})

	t.Run("whitespace-only text yields nothing", func(t *testing.T) {
		assert.Nil(t, splitIntoChunks("   \n\t ", 1000, 100))
	})

	t.Run("long text breaks at sentence boundaries", func(t *testing.T) {
		text := strings.Repeat("This is a sentence about learning. ", 10)
		chunks := splitIntoChunks(text, 100, 20)

		require.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 100)
			assert.True(t, strings.HasSuffix(c, "."), "chunk should end at a sentence: %q", c)
		}
	})

	t.Run("consecutive chunks overlap", func(t *testing.T) {
		text := strings.Repeat("abcdefghij. ", 30)
		chunks := splitIntoChunks(text, 100, 20)
		require.Greater(t, len(chunks), 1)

		// The tail of one chunk reappears at the head of the next.
		tail := chunks[0][len(chunks[0])-10:]
		assert.Contains(t, chunks[1], strings.TrimSpace(tail))
	})

	t.Run("text without break points splits hard", func(t *testing.T) {
		text := strings.Repeat("x", 250)
		chunks := splitIntoChunks(text, 100, 20)
		require.Greater(t, len(chunks), 1)
		assert.Equal(t, 100, len(chunks[0]))
	})
}
