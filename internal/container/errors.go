package container

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/timmy/gzblob/internal/compress"
)

// Error kinds. Every error returned by a Container matches exactly one of
// these with errors.Is, except status errors for 404 which also match
// ErrNotFound.
var (
	ErrIO               = errors.New("io error")
	ErrRemote           = errors.New("remote error")
	ErrNotFound         = errors.New("blob not found")
	ErrEncodingMismatch = compress.ErrEncodingMismatch
	ErrParse            = errors.New("parse error")
)

// OpError records the operation, blob and kind of a failure along with its cause.
type OpError struct {
	Op   string
	Blob string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Blob, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *OpError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func opError(op, blob string, kind, err error) error {
	return &OpError{Op: op, Blob: blob, Kind: kind, Err: err}
}

// StatusError is returned when a read gets any status other than 200.
type StatusError struct {
	Blob   string
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("can't get %s: status %d", e.URL, e.Status)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrRemote:
		return true
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}
