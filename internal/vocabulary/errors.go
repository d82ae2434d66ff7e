package vocabulary

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotLoaded is returned by accessors used before Load.
var ErrNotLoaded = errors.New("vocabulary not loaded")

// LoadError represents a failure to load one of the vocabulary inputs
type LoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vocabulary load failed for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("vocabulary load failed for %s: %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// CycleError reports a cycle in the skill hierarchy
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("skill hierarchy contains a cycle: %s", strings.Join(e.Path, " -> "))
}
