// Package testutil holds deterministic fakes shared by package tests.
package testutil

import (
	"context"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"book-rag/internal/models"
)

// BagEmbedder is a deterministic token-bag embedder. Texts sharing more
// words land closer in cosine space, which is enough to make retrieval
// assertions stable without a network embedder. Words get vector slots in
// order of first appearance, so distinct words never collide.
type BagEmbedder struct {
	Dim   int
	Calls atomic.Int64

	mu    sync.Mutex
	vocab map[string]int
}

func NewBagEmbedder() *BagEmbedder {
	return &BagEmbedder{Dim: 256, vocab: make(map[string]int)}
}

func (e *BagEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	e.Calls.Add(int64(len(texts)))
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embed(t)
	}
	return out, nil
}

func (e *BagEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	e.Calls.Add(1)
	return e.embed(text), nil
}

func (e *BagEmbedder) embed(text string) []float32 {
	e.mu.Lock()
	defer e.mu.Unlock()

	vec := make([]float32, e.Dim)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:!?\"'()")
		if w == "" {
			continue
		}
		idx, ok := e.vocab[w]
		if !ok {
			idx = len(e.vocab) % e.Dim
			e.vocab[w] = idx
		}
		vec[idx]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range vec {
			vec[i] /= n
		}
	}
	return vec
}

// CannedCompleter returns a fixed answer, or echoes the assembled context
// when Echo is set, and records every payload it receives.
type CannedCompleter struct {
	Answer   string
	Echo     bool
	Err      error
	Payloads []models.PromptPayload
}

func (c *CannedCompleter) Invoke(_ context.Context, payload models.PromptPayload) (string, error) {
	c.Payloads = append(c.Payloads, payload)
	if c.Err != nil {
		return "", c.Err
	}
	if c.Echo {
		return payload.Context, nil
	}
	return c.Answer, nil
}
