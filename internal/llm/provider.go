package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"book-rag/internal/apperr"
	"book-rag/internal/config"
)

const (
	BackendOpenAI = "openai"
	BackendOllama = "ollama"
)

// Provider is one configured completion backend.
type Provider interface {
	Name() string
	// Configured reports whether the provider's required credential is
	// present; selection never touches the network.
	Configured() bool
	Complete(ctx context.Context, prompt string) (string, error)
}

// NewProviders maps provider configs in their configured order.
func NewProviders(cfgs []config.LLMConfig) []Provider {
	providers := make([]Provider, 0, len(cfgs))
	for _, c := range cfgs {
		providers = append(providers, &chatProvider{cfg: c})
	}
	return providers
}

// Select returns the first provider whose credential is present. The
// choice is per process configuration, not per failed call.
func Select(providers []Provider) (Provider, error) {
	for _, p := range providers {
		if p.Configured() {
			log.Info().Str("provider", p.Name()).Msg("Selected model provider")
			return p, nil
		}
	}
	return nil, apperr.ErrNoProvider
}

type chatProvider struct {
	cfg config.LLMConfig
}

func (p *chatProvider) Name() string {
	if p.cfg.Name != "" {
		return p.cfg.Name
	}
	return p.cfg.Backend
}

func (p *chatProvider) Configured() bool {
	if p.cfg.Backend == BackendOllama {
		// Local ollama needs a reachable URL, not a key.
		return p.cfg.BaseURL != ""
	}
	return p.cfg.Key != ""
}

// Complete issues exactly one completion call; retries and cross-provider
// fallback are deliberately out of contract.
func (p *chatProvider) Complete(ctx context.Context, prompt string) (string, error) {
	model, err := p.newModel()
	if err != nil {
		return "", err
	}
	res, err := model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	})
	if err != nil {
		return "", fmt.Errorf("provider %s: %w", p.Name(), err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("provider %s returned no choices", p.Name())
	}
	return res.Choices[0].Content, nil
}

func (p *chatProvider) newModel() (llms.Model, error) {
	switch p.cfg.Backend {
	case BackendOllama:
		return ollama.New(
			ollama.WithServerURL(p.cfg.BaseURL),
			ollama.WithModel(p.cfg.Model),
		)
	case "", BackendOpenAI:
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(p.cfg.Key, "Bearer ")),
			openai.WithModel(p.cfg.Model),
		}
		if p.cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(p.cfg.BaseURL))
		}
		return openai.New(opts...)
	default:
		return nil, fmt.Errorf("unknown provider backend: %s", p.cfg.Backend)
	}
}
