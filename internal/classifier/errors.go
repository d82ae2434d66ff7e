package classifier

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when an operation needs loaded exemplar vectors.
var ErrUnavailable = errors.New("classifier unavailable")

// UnavailableError explains why the classifier could not be loaded.
type UnavailableError struct {
	Embedder string
	Cause    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("classifier unavailable (embedder %s): %v", e.Embedder, e.Cause)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{ErrUnavailable, e.Cause}
}
