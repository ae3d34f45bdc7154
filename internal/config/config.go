package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = 5000
	defaultChunkSize       = 3000
	defaultChunkOverlap    = 500
	defaultTopK            = 4
	defaultMaxHistoryTurns = 10
	defaultUploadsDir      = "./uploads"
)

type ServerConfig struct {
	Port       int    `yaml:"port"`
	UploadsDir string `yaml:"uploads_dir"`
}

type RAGConfig struct {
	ChunkSize       int `yaml:"chunk_size"`
	ChunkOverlap    int `yaml:"chunk_overlap"`
	TopK            int `yaml:"top_k"`
	MaxHistoryTurns int `yaml:"max_history_turns"`
}

// LLMConfig describes one model endpoint, either a chat provider or the
// embedding backend. Key may be supplied inline or through KeyEnv.
type LLMConfig struct {
	Name    string `yaml:"name"`
	Backend string `yaml:"backend"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Key     string `yaml:"key"`
	KeyEnv  string `yaml:"key_env"`
}

type DatabaseConfig struct {
	DSN   string `yaml:"dsn"`
	Debug bool   `yaml:"debug"`
}

type BookConfig struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Author  string `yaml:"author"`
	Year    string `yaml:"year"`
	Genre   string `yaml:"genre"`
	Summary string `yaml:"summary"`
	File    string `yaml:"file"`
}

type Config struct {
	Server    ServerConfig   `yaml:"server"`
	RAG       RAGConfig      `yaml:"rag"`
	Embedding LLMConfig      `yaml:"embedding"`
	Providers []LLMConfig    `yaml:"providers"`
	Database  DatabaseConfig `yaml:"database"`
	Books     []BookConfig   `yaml:"books"`
}

// LoadConfig reads the YAML config, resolves credentials from the
// environment and validates it. Misconfiguration is a startup failure,
// never a per-request one.
func LoadConfig(path string) (*Config, error) {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyDefaults()
	cfg.resolveKeys()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.UploadsDir == "" {
		c.Server.UploadsDir = defaultUploadsDir
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = defaultChunkSize
	}
	if c.RAG.ChunkOverlap == 0 {
		c.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = defaultTopK
	}
	if c.RAG.MaxHistoryTurns == 0 {
		c.RAG.MaxHistoryTurns = defaultMaxHistoryTurns
	}
}

func (c *Config) resolveKeys() {
	resolve := func(l *LLMConfig) {
		if l.Key == "" && l.KeyEnv != "" {
			l.Key = os.Getenv(l.KeyEnv)
		}
	}
	resolve(&c.Embedding)
	for i := range c.Providers {
		resolve(&c.Providers[i])
	}
}

func (c *Config) Validate() error {
	if c.RAG.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk_size must be positive, got %d", c.RAG.ChunkSize)
	}
	if c.RAG.ChunkOverlap < 0 {
		return fmt.Errorf("config: chunk_overlap cannot be negative, got %d", c.RAG.ChunkOverlap)
	}
	if c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("config: chunk_overlap %d must be smaller than chunk_size %d",
			c.RAG.ChunkOverlap, c.RAG.ChunkSize)
	}
	if c.RAG.TopK <= 0 {
		return fmt.Errorf("config: top_k must be positive, got %d", c.RAG.TopK)
	}
	if c.RAG.MaxHistoryTurns <= 0 {
		return fmt.Errorf("config: max_history_turns must be positive, got %d", c.RAG.MaxHistoryTurns)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("config: embedding model is required")
	}
	for _, b := range c.Books {
		if b.ID == "" || b.File == "" {
			return fmt.Errorf("config: book entries need both id and file (title %q)", b.Title)
		}
	}
	return nil
}
