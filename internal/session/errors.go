package session

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for an unknown session id.
var ErrNotFound = errors.New("session not found")

// ErrContentSourcing matches any ContentSourcingError via errors.Is.
var ErrContentSourcing = errors.New("content sourcing failed")

// ContentSourcingError reports that both the corpus and generation failed.
type ContentSourcingError struct {
	Primary   error
	Secondary error
}

func (e *ContentSourcingError) Error() string {
	return fmt.Sprintf("content sourcing failed: corpus: %v; generation: %v", e.Primary, e.Secondary)
}

func (e *ContentSourcingError) Is(target error) bool {
	return target == ErrContentSourcing
}

func (e *ContentSourcingError) Unwrap() []error {
	return []error{e.Primary, e.Secondary}
}
