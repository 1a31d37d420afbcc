package question

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a language teacher writing multiple-choice practice questions.

Rules:
- Write every question for the requested target language and learner level.
- Cover vocabulary, grammar and short translations; mix them within a batch.
- Each question has 3 or 4 options, all distinct, with exactly one correct option.
- Distractors should reflect common learner mistakes, not random words.
- "correct" is the zero-based index of the correct option.
- Keep prompts short and self-contained. Write prompts in English and quote the target-language text.
- Do not repeat a question within the batch.`

// buildUserMessage constructs the user message for a batch request.
func buildUserMessage(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Language: %s\n", req.Language)
	fmt.Fprintf(&b, "Learner level: %s\n", req.Level)
	fmt.Fprintf(&b, "Number of questions: %d\n", req.Count)
	b.WriteString("\n")
	b.WriteString(levelGuidance(req.Level.String()))
	return b.String()
}

func levelGuidance(lvl string) string {
	switch strings.ToLower(lvl) {
	case "beginner", "pre-intermediate":
		return "Focus on everyday vocabulary, articles, greetings and present tense."
	case "intermediate", "pre-advanced":
		return "Focus on past and future tenses, pronouns, prepositions and common idioms."
	default:
		return "Focus on subjunctive and conditional moods, nuance between near-synonyms and idiomatic usage."
	}
}
