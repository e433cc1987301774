package usecase

import (
	"errors"
	"fmt"
)

// InputError is a malformed or unknown request parameter. Reported to the
// caller immediately, never silently defaulted.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsInputError reports whether err is an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
