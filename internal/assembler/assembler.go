package assembler

import (
	"strings"

	"book-rag/internal/models"
)

const defaultMaxHistoryTurns = 10

// Assembler merges retrieved chunks, bounded conversation history and book
// metadata into the structured prompt payload handed to the invoker.
type Assembler struct {
	maxHistoryTurns int
}

func New(maxHistoryTurns int) *Assembler {
	if maxHistoryTurns <= 0 {
		maxHistoryTurns = defaultMaxHistoryTurns
	}
	return &Assembler{maxHistoryTurns: maxHistoryTurns}
}

// Assemble never fails: an empty retrieval becomes an explicit notice and
// oversupplied history is truncated to the most recent turns regardless of
// what the caller sent.
func (a *Assembler) Assemble(
	retrieved models.RetrievalResult,
	history []models.ConversationTurn,
	meta models.BookMetadata,
	question string,
) models.PromptPayload {
	return models.PromptPayload{
		Title:    meta.Title,
		Author:   meta.Author,
		History:  a.renderHistory(history),
		Context:  renderContext(retrieved),
		Question: question,
	}
}

func renderContext(retrieved models.RetrievalResult) string {
	if len(retrieved) == 0 {
		return models.NoContextNotice
	}
	texts := make([]string, len(retrieved))
	for i, c := range retrieved {
		texts[i] = c.Text
	}
	return strings.Join(texts, models.ContextSeparator)
}

func (a *Assembler) renderHistory(history []models.ConversationTurn) string {
	if len(history) > a.maxHistoryTurns {
		history = history[len(history)-a.maxHistoryTurns:]
	}
	var b strings.Builder
	for i, turn := range history {
		if i > 0 {
			b.WriteByte('\n')
		}
		label := "User"
		if turn.Role == models.RoleAssistant {
			label = "Assistant"
		}
		b.WriteString(label + ": " + turn.Text)
	}
	return b.String()
}
