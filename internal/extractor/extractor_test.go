package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	t.Run("ShouldReadPlainText", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "book.txt")
		require.NoError(t, os.WriteFile(path, []byte("Chapter 1. Alpha."), 0o644))
		text, err := ExtractText(path)
		require.NoError(t, err)
		assert.Equal(t, "Chapter 1. Alpha.", text)
	})

	t.Run("ShouldStripMarkdownToPlainText", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "book.md")
		require.NoError(t, os.WriteFile(path, []byte("# Title\n\nSome *emphasis* &amp; more."), 0o644))
		text, err := ExtractText(path)
		require.NoError(t, err)
		assert.Contains(t, text, "Title")
		assert.Contains(t, text, "Some emphasis & more.")
		assert.NotContains(t, text, "<")
		assert.NotContains(t, text, "*")
	})

	t.Run("ShouldRejectUnsupportedFormat", func(t *testing.T) {
		_, err := ExtractText("book.epub")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported file format")
	})

	t.Run("ShouldSurfaceMissingFile", func(t *testing.T) {
		_, err := ExtractText(filepath.Join(t.TempDir(), "missing.txt"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})
}
