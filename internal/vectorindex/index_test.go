package vectorindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-rag/internal/models"
	"book-rag/internal/testutil"
)

func chunksFrom(texts ...string) []models.Chunk {
	chunks := make([]models.Chunk, len(texts))
	offset := 0
	for i, t := range texts {
		chunks[i] = models.Chunk{Text: t, Seq: i, Start: offset}
		offset += len(t)
	}
	return chunks
}

func TestBuild(t *testing.T) {
	t.Run("ShouldBuildEmptyIndexForNoChunks", func(t *testing.T) {
		ix, err := Build(context.Background(), "empty", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, ix.Len())
	})

	t.Run("ShouldEmbedEveryChunkOnce", func(t *testing.T) {
		embedder := testutil.NewBagEmbedder()
		ix, err := Build(context.Background(), "b1", chunksFrom("alpha beta", "gamma delta", "epsilon"), embedder)
		require.NoError(t, err)
		assert.Equal(t, 3, ix.Len())
		assert.Equal(t, int64(3), embedder.Calls.Load())
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("ShouldReturnEmptyResultForEmptyIndex", func(t *testing.T) {
		ix, err := Build(ctx, "empty", nil, nil)
		require.NoError(t, err)
		embedder := testutil.NewBagEmbedder()
		vec, err := embedder.EmbedQuery(ctx, "anything")
		require.NoError(t, err)
		res, err := ix.Search(ctx, vec, 4)
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("ShouldClampOversizedK", func(t *testing.T) {
		embedder := testutil.NewBagEmbedder()
		ix, err := Build(ctx, "b1", chunksFrom("alpha beta", "gamma delta"), embedder)
		require.NoError(t, err)
		vec, err := embedder.EmbedQuery(ctx, "alpha")
		require.NoError(t, err)
		res, err := ix.Search(ctx, vec, 50)
		require.NoError(t, err)
		assert.Len(t, res, 2)
	})

	t.Run("ShouldRankMostSimilarChunkFirst", func(t *testing.T) {
		embedder := testutil.NewBagEmbedder()
		chunks := chunksFrom("Chapter 1. Alpha. Ch", "a. Chapter 2. Beta.")
		ix, err := Build(ctx, "b1", chunks, embedder)
		require.NoError(t, err)
		vec, err := embedder.EmbedQuery(ctx, "What is chapter 2 about?")
		require.NoError(t, err)
		res, err := ix.Search(ctx, vec, 1)
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Contains(t, res[0].Text, "Chapter 2")
	})

	t.Run("ShouldBreakSimilarityTiesByChunkOrder", func(t *testing.T) {
		embedder := testutil.NewBagEmbedder()
		// Identical texts embed identically; order must fall back to sequence.
		chunks := chunksFrom("same words here", "same words here", "same words here")
		ix, err := Build(ctx, "b1", chunks, embedder)
		require.NoError(t, err)
		vec, err := embedder.EmbedQuery(ctx, "same words here")
		require.NoError(t, err)
		res, err := ix.Search(ctx, vec, 3)
		require.NoError(t, err)
		require.Len(t, res, 3)
		for i, c := range res {
			assert.Equal(t, i, c.Seq)
		}
	})

	t.Run("ShouldReturnIdenticalOrderAcrossRepeatedQueries", func(t *testing.T) {
		embedder := testutil.NewBagEmbedder()
		chunks := chunksFrom("money and time", "habits and focus", "risk and luck")
		ix, err := Build(ctx, "b1", chunks, embedder)
		require.NoError(t, err)
		vec, err := embedder.EmbedQuery(ctx, "what does the book say about risk")
		require.NoError(t, err)
		first, err := ix.Search(ctx, vec, 3)
		require.NoError(t, err)
		second, err := ix.Search(ctx, vec, 3)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("ShouldRejectNonPositiveK", func(t *testing.T) {
		embedder := testutil.NewBagEmbedder()
		ix, err := Build(ctx, "b1", chunksFrom("alpha"), embedder)
		require.NoError(t, err)
		_, err = ix.Search(ctx, []float32{1}, 0)
		require.Error(t, err)
	})
}
