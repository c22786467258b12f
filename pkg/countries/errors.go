package countries

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput matches errors for region files that do not exist.
	ErrMissingInput = errors.New("missing input")
	// ErrMalformedInput matches errors for region files that are not a JSON object.
	ErrMalformedInput = errors.New("malformed input")
)

// MissingInputError reports a region file that could not be found.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s not found", e.Path)
}

func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

// DecodeError reports a region file whose content could not be decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrMalformedInput
}
