package session

import (
	"errors"
	"fmt"
)

// Phase is the lifecycle state of a session.
type Phase int

const (
	PhaseCreated    Phase = iota // Zero value; not yet started
	PhaseInProgress              // Serving questions
	PhaseCompleted               // Every question answered
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseInProgress:
		return "in-progress"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Kind distinguishes the two session flavors.
type Kind string

const (
	KindQuiz      Kind = "quiz"
	KindLevelTest Kind = "level-test"
)

// LevelTestSize is the fixed number of questions in a level test.
const LevelTestSize = 5

var (
	// ErrInsufficientQuestions is returned by Start when fewer questions
	// than the requested size are supplied.
	ErrInsufficientQuestions = errors.New("insufficient questions")

	// ErrInvalidSize is returned by Start for a non-positive size.
	ErrInvalidSize = errors.New("session size must be positive")

	// ErrSessionComplete is returned when a question is requested or
	// answered after the last answer.
	ErrSessionComplete = errors.New("session complete")

	// ErrSessionNotComplete is returned by Result before the last answer.
	ErrSessionNotComplete = errors.New("session not complete")

	// ErrInvalidSelection is returned by Submit for an option index out
	// of range.
	ErrInvalidSelection = errors.New("invalid selection")
)

// AnswerOutcome reports the result of one submitted answer.
type AnswerOutcome struct {
	Correct      bool
	CorrectIndex int
}

// Result is the final score of a completed session.
type Result struct {
	Score int
	Total int
}
