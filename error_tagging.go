package parallel

import (
	"errors"
	"fmt"
)

// ItemMetaError exposes correlation metadata for a failed item.
type ItemMetaError interface {
	error
	Unwrap() error
	ItemIndex() (uint64, bool)
}

type itemTaggedError struct {
	err   error
	index uint64
}

func newItemTaggedError(err error, index uint64) error {
	if err == nil {
		return nil
	}
	return &itemTaggedError{err: err, index: index}
}

func (e *itemTaggedError) Error() string { return e.err.Error() }
func (e *itemTaggedError) Unwrap() error { return e.err }

func (e *itemTaggedError) ItemIndex() (uint64, bool) { return e.index, true }

func (e *itemTaggedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "item(index=%d): %+v", e.index, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractItemIndex returns the input index of the failed item if err carries one.
// Indices are only attached when the stage runs WithErrorTagging.
func ExtractItemIndex(err error) (uint64, bool) {
	var ime ItemMetaError
	if errors.As(err, &ime) {
		return ime.ItemIndex()
	}
	return 0, false
}
