package synthesis

import (
	"strings"

	"chitravaani/internal/domain"
)

// Section headers of the generation prompt.
const (
	ContextHeader  = "Context:"
	QuestionHeader = "Question:"
	AnswerHeader   = "Answer:"
)

const instructions = `You are a movie knowledge assistant for a curated dataset.

Answer the question using ONLY the information in the context below.
Do not use any outside knowledge and do not guess.

If the context does not contain the answer, reply with exactly:
"` + domain.RefusalText + `"`

// BuildContext joins record texts with a blank line, keeping the given order.
func BuildContext(records []domain.Record) string {
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = r.Text
	}
	return strings.Join(parts, "\n\n")
}

// BuildPrompt wraps the context block and the question in the fixed instruction template.
func BuildPrompt(contextBlock, question string) string {
	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\n")
	b.WriteString(ContextHeader)
	b.WriteString("\n")
	b.WriteString(contextBlock)
	b.WriteString("\n\n")
	b.WriteString(QuestionHeader)
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(question))
	b.WriteString("\n\n")
	b.WriteString(AnswerHeader)
	b.WriteString("\n")
	return b.String()
}

// ParsePrompt recovers the context block and question from a prompt made by BuildPrompt.
func ParsePrompt(prompt string) (contextBlock, question string, ok bool) {
	ci := strings.Index(prompt, "\n"+ContextHeader+"\n")
	qi := strings.LastIndex(prompt, "\n\n"+QuestionHeader+"\n")
	ai := strings.LastIndex(prompt, "\n\n"+AnswerHeader+"\n")
	if ci < 0 || qi < 0 || ai < 0 || !(ci < qi && qi < ai) {
		return "", "", false
	}
	contextBlock = prompt[ci+len(ContextHeader)+2 : qi]
	question = prompt[qi+len(QuestionHeader)+3 : ai]
	return contextBlock, question, true
}
