package models

const (
	ContextSeparator = "\n---\n"
	ThinkTag         = `(?s)<think>.*?</think>`

	// NoContextNotice replaces the context block when retrieval finds
	// nothing, so the model is told explicitly instead of failing.
	NoContextNotice = "No relevant content was found in this book for the question."

	// FallbackSentence is the exact phrase the model is instructed to emit
	// when the requested information is absent from the supplied context.
	FallbackSentence = "I'm sorry, I couldn't find specific information about that in this part of the book."
)

var (
	AnswerPromptTemplate = `You are a professional book assistant for the book "{{.title}}" by {{.author}}.
You have access to snippets from the book being read by the user.

Context:
{{.context}}

Conversation so far:
{{.history}}

User Question: {{.question}}

Answer the user's question accurately based on the provided context only.
If the question names a chapter, use only snippets belonging to that chapter and disregard content from other chapters.
If the user asks for the next or previous paragraph, reproduce it verbatim from the context.
If the answer isn't mentioned in the context, say: "` + FallbackSentence + `"
`
)
