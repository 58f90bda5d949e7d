package bubble

import "errors"

var (
	// ErrInvalidParams indicates a parameter range or constant that cannot
	// produce a valid particle set.
	ErrInvalidParams = errors.New("bubble: invalid params")

	// ErrUnknownVariant indicates a variant name that does not parse.
	ErrUnknownVariant = errors.New("bubble: unknown variant")
)
