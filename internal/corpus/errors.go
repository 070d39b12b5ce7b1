package corpus

import (
	"errors"
	"fmt"
)

// ErrEmptyCorpus is returned when the corpus directory holds no entries.
var ErrEmptyCorpus = errors.New("corpus has no entries")

// EntryError reports a corpus file that could not be read or parsed.
type EntryError struct {
	Path string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("corpus entry %s: %v", e.Path, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }
