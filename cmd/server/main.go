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
	"book-rag/internal/indexcache"
	"book-rag/internal/llm"
	"book-rag/internal/models"
	"book-rag/internal/rag"
	"book-rag/internal/server"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()

	var store *catalog.Store
	if cfg.Database.DSN != "" {
		db := catalog.ConnectDB(&cfg.Database)
		store = catalog.NewStore(db)
		if err := store.Init(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error initializing catalog store")
		}
		defer store.Close()
	}

	registry := catalog.NewRegistry(store)
	if err := registry.LoadPersisted(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error loading persisted catalog")
	}
	for _, b := range cfg.Books {
		meta := models.BookMetadata{
			ID:       b.ID,
			Title:    b.Title,
			Author:   b.Author,
			Year:     b.Year,
			Genre:    b.Genre,
			Summary:  b.Summary,
			FilePath: b.File,
		}
		if err := registry.Register(ctx, meta); err != nil {
			log.Fatal().Err(err).Str("book", b.ID).Msg("Error registering book")
		}
	}

	if err := os.MkdirAll(cfg.Server.UploadsDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Error creating uploads directory")
	}

	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	splitter, err := chunker.NewSplitter(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring chunker")
	}

	// Provider choice happens here, before any request hits the network.
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

	srv := server.New(svc, registry, cfg.Server.UploadsDir)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", addr).Int("books", len(registry.List())).Msg("RAG server listening")
	if err := srv.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
