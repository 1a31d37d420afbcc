// Package session implements the question-by-question state machine that
// drives quizzes and level tests.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/langmentor/internal/question"
)

// Session runs one quiz or level test. Each question is answered exactly
// once, in order. A Session is not safe for concurrent use; the owning
// controller serializes calls.
type Session struct {
	ID        string
	Kind      Kind
	StartedAt time.Time

	questions []question.Question
	answers   []int
	index     int
	correct   int
	phase     Phase
}

// Start creates an in-progress session over the first size questions.
func Start(kind Kind, questions []question.Question, size int) (*Session, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if len(questions) < size {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientQuestions, len(questions), size)
	}

	qs := make([]question.Question, size)
	copy(qs, questions[:size])

	return &Session{
		ID:        uuid.New().String(),
		Kind:      kind,
		StartedAt: time.Now(),
		questions: qs,
		answers:   make([]int, 0, size),
		phase:     PhaseInProgress,
	}, nil
}

// Phase returns the lifecycle state.
func (s *Session) Phase() Phase { return s.phase }

// Size returns the number of questions in the session.
func (s *Session) Size() int { return len(s.questions) }

// Index returns the 0-based cursor, equal to the number answered.
func (s *Session) Index() int { return s.index }

// Correct returns the number of correct answers so far.
func (s *Session) Correct() int { return s.correct }

// Position returns the 1-based number of the current question and the
// session size. Once complete, the number equals the size.
func (s *Session) Position() (int, int) {
	n := s.index + 1
	if n > len(s.questions) {
		n = len(s.questions)
	}
	return n, len(s.questions)
}

// Current returns the question awaiting an answer, without its key.
func (s *Session) Current() (question.Display, error) {
	if s.phase != PhaseInProgress {
		return question.Display{}, s.notInProgress()
	}
	return s.questions[s.index].Display(), nil
}

// Submit scores the selected option for the current question and
// advances. Rejected submissions leave the session unchanged.
func (s *Session) Submit(selected int) (AnswerOutcome, error) {
	if s.phase != PhaseInProgress {
		return AnswerOutcome{}, s.notInProgress()
	}

	q := s.questions[s.index]
	if selected < 0 || selected >= len(q.Options) {
		return AnswerOutcome{}, fmt.Errorf("%w: option %d of %d", ErrInvalidSelection, selected, len(q.Options))
	}

	ok := selected == q.CorrectIndex
	if ok {
		s.correct++
	}
	s.answers = append(s.answers, selected)
	s.index++
	if s.index == len(s.questions) {
		s.phase = PhaseCompleted
	}

	return AnswerOutcome{Correct: ok, CorrectIndex: q.CorrectIndex}, nil
}

// Result returns the final score.
func (s *Session) Result() (Result, error) {
	if s.phase != PhaseCompleted {
		return Result{}, ErrSessionNotComplete
	}
	return Result{Score: s.correct, Total: len(s.questions)}, nil
}

// Answers returns the selected option index for each answered question.
func (s *Session) Answers() []int {
	out := make([]int, len(s.answers))
	copy(out, s.answers)
	return out
}

// Question returns the i-th question including its key, for review
// screens and event logging.
func (s *Session) Question(i int) (question.Question, bool) {
	if i < 0 || i >= len(s.questions) {
		return question.Question{}, false
	}
	return s.questions[i], true
}

func (s *Session) notInProgress() error {
	if s.phase == PhaseCompleted {
		return ErrSessionComplete
	}
	return fmt.Errorf("session %s: not started", s.ID)
}
