package vectorindex

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"

	"book-rag/internal/models"
)

// Index holds the chunk/vector pairs for one book. It is immutable once
// built and owns its chunks for the rest of the process lifetime.
type Index struct {
	collection *chromem.Collection
	chunks     []models.Chunk
}

// Build embeds every chunk and stores the pairs in a fresh in-memory
// collection. An empty chunk set yields a usable empty index, not an error.
func Build(ctx context.Context, id string, chunks []models.Chunk, embedder embeddings.Embedder) (*Index, error) {
	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection("book-"+id, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %v", err)
	}
	ix := &Index{collection: collection, chunks: chunks}
	if len(chunks) == 0 {
		return ix, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = chromem.Document{
			ID:        fmt.Sprintf("%s-%d", id, c.Seq),
			Content:   c.Text,
			Metadata:  map[string]string{"seq": strconv.Itoa(c.Seq)},
			Embedding: vectors[i],
		}
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("failed to add documents: %v", err)
	}
	return ix, nil
}

// Len reports the number of indexed chunks.
func (ix *Index) Len() int { return len(ix.chunks) }

// Search returns the k most similar chunks, most similar first. Equal
// similarities fall back to document order so results stay deterministic
// for identical vectors. Oversized k is clamped, never an error.
func (ix *Index) Search(ctx context.Context, queryVec []float32, k int) (models.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if len(ix.chunks) == 0 {
		return nil, nil
	}
	if k > len(ix.chunks) {
		k = len(ix.chunks)
	}

	results, err := ix.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryVec,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}

	type ranked struct {
		seq        int
		similarity float32
	}
	order := make([]ranked, 0, len(results))
	for _, r := range results {
		seq, err := strconv.Atoi(r.Metadata["seq"])
		if err != nil || seq < 0 || seq >= len(ix.chunks) {
			return nil, fmt.Errorf("malformed chunk metadata for %s", r.ID)
		}
		order = append(order, ranked{seq: seq, similarity: r.Similarity})
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].similarity != order[j].similarity {
			return order[i].similarity > order[j].similarity
		}
		return order[i].seq < order[j].seq
	})

	out := make(models.RetrievalResult, 0, len(order))
	for _, r := range order {
		out = append(out, ix.chunks[r.seq])
	}
	return out, nil
}
