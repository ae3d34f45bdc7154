package models

// Chunk is a contiguous span of a book's text used as the retrieval unit.
// Start is the byte offset of the span within the extracted text.
type Chunk struct {
	Text  string
	Seq   int
	Start int
}

// End returns the offset just past the chunk within the source text.
func (c Chunk) End() int { return c.Start + len(c.Text) }

// RetrievalResult is an ordered sequence of chunks, most relevant first.
type RetrievalResult []Chunk

// Conversation roles accepted on chat requests.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one prior message of the chat session.
type ConversationTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// BookMetadata describes one catalog entry. The RAG core reads it for
// prompt templating and never mutates it.
type BookMetadata struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Year     string `json:"year,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Summary  string `json:"summary,omitempty"`
	FilePath string `json:"-"`
}

// PromptPayload is the structured prompt input handed to the model
// invoker. It is kept as separate fields so back-ends can render it
// with their own template.
type PromptPayload struct {
	Title    string
	Author   string
	History  string
	Context  string
	Question string
}
