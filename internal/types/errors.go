package types

import "errors"

var (
	// ErrUnrecognizedURL indicates the URL matches no known content pattern.
	ErrUnrecognizedURL = errors.New("unrecognized url")

	// ErrIdentifierMissing indicates no usable identifier could be extracted for the category.
	ErrIdentifierMissing = errors.New("identifier missing")

	// ErrMissingRequiredParameter indicates a field required by an upstream call is absent.
	ErrMissingRequiredParameter = errors.New("missing required parameter")

	// ErrUnknownCategory indicates no handler is registered for the category tag.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrDuplicateRegistration indicates two handlers were registered for one category.
	ErrDuplicateRegistration = errors.New("duplicate registration")

	// ErrIO indicates a local file write failure during download.
	ErrIO = errors.New("io error")
)

// IOError wraps a local filesystem failure. It matches ErrIO with errors.Is.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return "io error: " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
