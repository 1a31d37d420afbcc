package quiz

import "github.com/abhisek/langmentor/internal/question"

// batchReadyMsg carries the questions fetched for attempt id.
type batchReadyMsg struct {
	id    int
	batch question.Batch
	err   error
}
