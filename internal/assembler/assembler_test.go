package assembler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"book-rag/internal/models"
)

func TestAssemble(t *testing.T) {
	meta := models.BookMetadata{Title: "The Psychology of Money", Author: "Morgan Housel"}

	t.Run("ShouldSeparateChunksWithVisibleDivider", func(t *testing.T) {
		retrieved := models.RetrievalResult{
			{Text: "first snippet", Seq: 0},
			{Text: "second snippet", Seq: 3},
		}
		payload := New(10).Assemble(retrieved, nil, meta, "q")
		assert.Equal(t, "first snippet\n---\nsecond snippet", payload.Context)
		assert.Equal(t, meta.Title, payload.Title)
		assert.Equal(t, meta.Author, payload.Author)
		assert.Equal(t, "q", payload.Question)
	})

	t.Run("ShouldNoticeEmptyRetrieval", func(t *testing.T) {
		payload := New(10).Assemble(nil, nil, meta, "q")
		assert.Equal(t, models.NoContextNotice, payload.Context)
	})

	t.Run("ShouldCapHistoryAtMostRecentTurns", func(t *testing.T) {
		var history []models.ConversationTurn
		for i := 0; i < 25; i++ {
			history = append(history, models.ConversationTurn{
				Role: models.RoleUser,
				Text: fmt.Sprintf("turn %d", i),
			})
		}
		payload := New(10).Assemble(nil, history, meta, "q")
		lines := strings.Split(payload.History, "\n")
		assert.Len(t, lines, 10)
		assert.Equal(t, "User: turn 15", lines[0])
		assert.Equal(t, "User: turn 24", lines[9])
	})

	t.Run("ShouldLabelRoles", func(t *testing.T) {
		history := []models.ConversationTurn{
			{Role: models.RoleUser, Text: "who wrote this?"},
			{Role: models.RoleAssistant, Text: "Morgan Housel."},
		}
		payload := New(10).Assemble(nil, history, meta, "q")
		assert.Equal(t, "User: who wrote this?\nAssistant: Morgan Housel.", payload.History)
	})
}
