// Package question holds the multiple-choice question model, the batch
// validator that turns raw generator output into playable questions, and
// the content sources (LLM generator and static fallback bank) that feed
// sessions.
package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/langmentor/internal/level"
)

type keyKind int

const (
	keyNone keyKind = iota
	keyIndex
	keyText
)

// AnswerKey identifies the correct option of a raw question, either by
// zero-based index or by the exact option text.
type AnswerKey struct {
	kind  keyKind
	index int
	text  string
}

// IndexKey builds an AnswerKey pointing at option i.
func IndexKey(i int) AnswerKey { return AnswerKey{kind: keyIndex, index: i} }

// TextKey builds an AnswerKey naming the correct option verbatim.
func TextKey(s string) AnswerKey { return AnswerKey{kind: keyText, text: s} }

// IsSet reports whether the key was provided.
func (k AnswerKey) IsSet() bool { return k.kind != keyNone }

func (k AnswerKey) String() string {
	switch k.kind {
	case keyIndex:
		return strconv.Itoa(k.index)
	case keyText:
		return strconv.Quote(k.text)
	default:
		return "<none>"
	}
}

// MarshalJSON writes an index key as a number and a text key as a string.
func (k AnswerKey) MarshalJSON() ([]byte, error) {
	switch k.kind {
	case keyIndex:
		return json.Marshal(k.index)
	case keyText:
		return json.Marshal(k.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON integer, a JSON string, or null.
func (k *AnswerKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*k = AnswerKey{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = TextKey(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("answer key must be an integer or a string: %w", err)
	}
	i, err := strconv.Atoi(n.String())
	if err != nil {
		return fmt.Errorf("answer key %s is not an integer", n)
	}
	*k = IndexKey(i)
	return nil
}

// RawQuestion is a question as delivered by a content source, before
// validation. Nothing about it is trusted.
type RawQuestion struct {
	Prompt  string    `json:"prompt"`
	Options []string  `json:"options"`
	Correct AnswerKey `json:"correct"`
}

// rawAliases lists every field name content sources have used.
type rawAliases struct {
	Prompt        *string    `json:"prompt"`
	Question      *string    `json:"question"`
	Text          *string    `json:"text"`
	Options       []string   `json:"options"`
	Choices       []string   `json:"choices"`
	Correct       *AnswerKey `json:"correct"`
	CorrectIndex  *AnswerKey `json:"correct_index"`
	CorrectAnswer *AnswerKey `json:"correct_answer"`
	Answer        *AnswerKey `json:"answer"`
}

// UnmarshalJSON decodes a raw record, folding the alternate field names
// into the canonical ones. The first present alias wins.
func (r *RawQuestion) UnmarshalJSON(data []byte) error {
	var a rawAliases
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = RawQuestion{}
	for _, p := range []*string{a.Prompt, a.Question, a.Text} {
		if p != nil {
			r.Prompt = *p
			break
		}
	}
	r.Options = a.Options
	if r.Options == nil {
		r.Options = a.Choices
	}
	for _, k := range []*AnswerKey{a.Correct, a.CorrectIndex, a.CorrectAnswer, a.Answer} {
		if k != nil && k.IsSet() {
			r.Correct = *k
			break
		}
	}
	return nil
}

// Question is a validated multiple-choice item. CorrectIndex is always a
// valid index into Options.
type Question struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// Display is the view of a question handed to the UI: no answer key.
type Display struct {
	Prompt  string
	Options []string
}

// Display strips the answer key.
func (q Question) Display() Display {
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	return Display{Prompt: q.Prompt, Options: opts}
}

// CorrectText returns the text of the correct option.
func (q Question) CorrectText() string {
	return q.Options[q.CorrectIndex]
}

// Request describes a batch of questions to obtain from a content source.
type Request struct {
	Language string
	Level    level.Level
	Count    int
}

func (r Request) String() string {
	return fmt.Sprintf("%d %s questions at %s", r.Count, strings.ToLower(r.Language), r.Level)
}
