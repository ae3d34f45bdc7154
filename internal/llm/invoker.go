package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"book-rag/internal/models"
)

var thinkTag = regexp.MustCompile(models.ThinkTag)

// Invoker renders the assembled payload through the fixed answer template
// and issues a single completion call against the selected provider.
type Invoker struct {
	provider Provider
	tmpl     prompts.PromptTemplate
}

func NewInvoker(provider Provider) *Invoker {
	return &Invoker{
		provider: provider,
		tmpl: prompts.NewPromptTemplate(models.AnswerPromptTemplate,
			[]string{"title", "author", "history", "context", "question"}),
	}
}

func (iv *Invoker) Invoke(ctx context.Context, payload models.PromptPayload) (string, error) {
	prompt, err := iv.tmpl.Format(map[string]any{
		"title":    payload.Title,
		"author":   payload.Author,
		"history":  payload.History,
		"context":  payload.Context,
		"question": payload.Question,
	})
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	out, err := iv.provider.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return Normalize(out), nil
}

// Normalize strips reasoning tags some models emit and trims whitespace so
// callers get plain answer text.
func Normalize(s string) string {
	return strings.TrimSpace(thinkTag.ReplaceAllString(s, ""))
}
