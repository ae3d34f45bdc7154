package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-rag/internal/apperr"
	"book-rag/internal/models"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("ShouldRegisterAndResolveBooks", func(t *testing.T) {
		r := NewRegistry(nil)
		meta := models.BookMetadata{ID: "isbn-1", Title: "Atomic Habits", Author: "James Clear", FilePath: "/books/ah.pdf"}
		require.NoError(t, r.Register(ctx, meta))
		got, err := r.Get("isbn-1")
		require.NoError(t, err)
		assert.Equal(t, meta, got)
	})

	t.Run("ShouldReportUnknownIdentityAsNotFound", func(t *testing.T) {
		r := NewRegistry(nil)
		_, err := r.Get("missing")
		require.Error(t, err)
		assert.Equal(t, apperr.NotFound, apperr.Classify(err))
	})

	t.Run("ShouldRejectEmptyIdentity", func(t *testing.T) {
		r := NewRegistry(nil)
		err := r.Register(ctx, models.BookMetadata{Title: "No ID"})
		require.Error(t, err)
		assert.Equal(t, apperr.InvalidRequest, apperr.Classify(err))
	})

	t.Run("ShouldListBooksSortedByTitle", func(t *testing.T) {
		r := NewRegistry(nil)
		require.NoError(t, r.Register(ctx, models.BookMetadata{ID: "2", Title: "Zebra", FilePath: "z"}))
		require.NoError(t, r.Register(ctx, models.BookMetadata{ID: "1", Title: "Alpha", FilePath: "a"}))
		books := r.List()
		require.Len(t, books, 2)
		assert.Equal(t, "Alpha", books[0].Title)
		assert.Equal(t, "Zebra", books[1].Title)
	})

	t.Run("ShouldAssignUniqueUploadIDs", func(t *testing.T) {
		a, err := NewUploadID()
		require.NoError(t, err)
		b, err := NewUploadID()
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}
