package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"book-rag/internal/assembler"
	"book-rag/internal/catalog"
	"book-rag/internal/chunker"
	"book-rag/internal/config"
	"book-rag/internal/embedding"
	"book-rag/internal/extractor"
	"book-rag/internal/helper"
	"book-rag/internal/indexcache"
	"book-rag/internal/llm"
	"book-rag/internal/models"
	"book-rag/internal/rag"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	filePath := flag.String("file", "", "Path to a document file to inspect")
	bookID := flag.String("id", "", "Configured book id to query")
	query := flag.String("query", "", "Question to ask about the book")
	dryRun := flag.Bool("dry-run", false, "Extract and chunk only, skip embedding")
	flag.Parse()

	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	switch {
	case *filePath != "" && *dryRun:
		inspectFile(cfg, *filePath)
	case *bookID != "" && *query != "":
		askBook(context.Background(), cfg, *bookID, *query)
	default:
		log.Fatal().Msg("Provide either -file with -dry-run, or -id with -query")
	}
}

// inspectFile shows what extraction and chunking would feed the embedder.
func inspectFile(cfg *config.Config, filePath string) {
	text, err := extractor.ExtractText(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error extracting text")
	}

	splitter, err := chunker.NewSplitter(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring chunker")
	}
	chunks := splitter.Split(text)

	log.Info().Int("characters", len(text)).Int("chunks", len(chunks)).Msg("Parsed document")
	helper.PrettyPrint(chunks)
}

func askBook(ctx context.Context, cfg *config.Config, bookID, query string) {
	registry := catalog.NewRegistry(nil)
	for _, b := range cfg.Books {
		meta := models.BookMetadata{
			ID: b.ID, Title: b.Title, Author: b.Author,
			Year: b.Year, Genre: b.Genre, Summary: b.Summary, FilePath: b.File,
		}
		if err := registry.Register(ctx, meta); err != nil {
			log.Fatal().Err(err).Str("book", b.ID).Msg("Error registering book")
		}
	}

	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	splitter, err := chunker.NewSplitter(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring chunker")
	}

	provider, err := llm.Select(llm.NewProviders(cfg.Providers))
	if err != nil {
		log.Fatal().Err(err).Msg("Error selecting model provider")
	}

	svc := rag.NewService(
		registry,
		indexcache.New(),
		splitter,
		embedder,
		embedding.Fingerprint(&cfg.Embedding),
		llm.NewInvoker(provider),
		assembler.New(cfg.RAG.MaxHistoryTurns),
		cfg.RAG.TopK,
	)

	answer, err := svc.Chat(ctx, bookID, query, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Error querying")
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", query)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", answer)
}
