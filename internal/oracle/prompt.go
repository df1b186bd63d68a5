package oracle

import (
	"fmt"
	"strings"
)

const AnswerPrompt = `You are an extractive question-answering system. Answer the question using ONLY text copied from the context.

Rules:
- "answer" MUST be an exact, contiguous substring of the context. Do not paraphrase, translate or fix typos.
- Prefer the shortest span that fully answers the question.
- "score" is your confidence from 0.0 to 1.0 that the span answers the question.
- If the context does not contain the answer, return the most relevant short span with a score below 0.2.

Respond with ONLY a JSON object of the form {"answer": "...", "score": 0.0}, no other text.`

// BuildQuestionPrompt creates the user message holding context and question.
func BuildQuestionPrompt(question, passage string) string {
	var sb strings.Builder
	sb.WriteString("Context:\n---\n")
	sb.WriteString(passage)
	sb.WriteString("\n---\n")
	sb.WriteString(fmt.Sprintf("Question: %q\n", strings.TrimSpace(question)))
	return sb.String()
}
