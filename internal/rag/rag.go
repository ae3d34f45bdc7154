// Package rag ties the pipeline together: registry lookup, cached index
// build, retrieval, context assembly and the completion call.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"book-rag/internal/apperr"
	"book-rag/internal/assembler"
	"book-rag/internal/catalog"
	"book-rag/internal/chunker"
	"book-rag/internal/extractor"
	"book-rag/internal/indexcache"
	"book-rag/internal/models"
	"book-rag/internal/vectorindex"
)

// Completer issues one completion call for an assembled payload.
type Completer interface {
	Invoke(ctx context.Context, payload models.PromptPayload) (string, error)
}

// ExtractFunc obtains a document's raw text; the default goes through the
// local extractor, tests swap it out.
type ExtractFunc func(filePath string) (string, error)

type Service struct {
	registry    *catalog.Registry
	cache       *indexcache.Cache
	splitter    *chunker.Splitter
	embedder    embeddings.Embedder
	embedderKey string
	completer   Completer
	assembler   *assembler.Assembler
	extract     ExtractFunc
	topK        int
}

// NewService wires the pipeline. embedderKey fingerprints the embedding
// configuration: cache keys include it so an embedder change can never
// serve vectors from another embedding space.
func NewService(
	registry *catalog.Registry,
	cache *indexcache.Cache,
	splitter *chunker.Splitter,
	embedder embeddings.Embedder,
	embedderKey string,
	completer Completer,
	asm *assembler.Assembler,
	topK int,
) *Service {
	return &Service{
		registry:    registry,
		cache:       cache,
		splitter:    splitter,
		embedder:    embedder,
		embedderKey: embedderKey,
		completer:   completer,
		assembler:   asm,
		extract:     extractor.ExtractText,
		topK:        topK,
	}
}

// WithExtractor overrides the text-extraction boundary.
func (s *Service) WithExtractor(fn ExtractFunc) *Service {
	s.extract = fn
	return s
}

// Chat answers one question about one book, building the book's index on
// first use.
func (s *Service) Chat(ctx context.Context, documentID, question string, history []models.ConversationTurn) (string, error) {
	if strings.TrimSpace(documentID) == "" {
		return "", fmt.Errorf("documentId is missing: %w", apperr.ErrInvalidRequest)
	}
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question is missing: %w", apperr.ErrInvalidRequest)
	}

	meta, err := s.registry.Get(documentID)
	if err != nil {
		return "", err
	}

	ix, err := s.index(ctx, meta)
	if err != nil {
		return "", err
	}

	retrieved, err := s.retrieve(ctx, ix, question)
	if err != nil {
		return "", err
	}

	payload := s.assembler.Assemble(retrieved, history, meta, question)
	answer, err := s.completer.Invoke(ctx, payload)
	if err != nil {
		return "", err
	}
	log.Debug().
		Str("book", documentID).
		Int("retrieved", len(retrieved)).
		Int("history", len(history)).
		Msg("Answered chat request")
	return answer, nil
}

// Index ensures the index for a registered book exists, building it if
// needed. Used by the upload path and the CLI.
func (s *Service) Index(ctx context.Context, documentID string) error {
	meta, err := s.registry.Get(documentID)
	if err != nil {
		return err
	}
	_, err = s.index(ctx, meta)
	return err
}

// Evict drops a book's cached index so the next request rebuilds it, e.g.
// after its file was replaced by a re-upload.
func (s *Service) Evict(documentID string) {
	s.cache.Evict(s.cacheKey(documentID))
}

func (s *Service) cacheKey(documentID string) string {
	return documentID + "@" + s.embedderKey
}

func (s *Service) index(ctx context.Context, meta models.BookMetadata) (*vectorindex.Index, error) {
	return s.cache.GetOrBuild(ctx, s.cacheKey(meta.ID), func(bctx context.Context) (*vectorindex.Index, error) {
		text, err := s.extract(meta.FilePath)
		if err != nil {
			return nil, fmt.Errorf("extracting text for book %s: %w", meta.ID, err)
		}
		chunks := s.splitter.Split(text)
		log.Info().
			Str("book", meta.ID).
			Int("characters", len(text)).
			Int("chunks", len(chunks)).
			Msg("Building embedding index")
		return vectorindex.Build(bctx, meta.ID, chunks, s.embedder)
	})
}

func (s *Service) retrieve(ctx context.Context, ix *vectorindex.Index, question string) (models.RetrievalResult, error) {
	if ix.Len() == 0 {
		return nil, nil
	}
	// Same embedder as the build; mixing embedding spaces is undefined.
	vec, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return ix.Search(ctx, vec, s.topK)
}
