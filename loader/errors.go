package loader

import (
	"errors"
	"fmt"
)

// ErrSourceNotFound is matched by errors.Is when the source file does not exist.
var ErrSourceNotFound = errors.New("source not found")

// LoadError reports a fatal failure to read a source. Path is the attempted
// location so it can be shown to the user as-is.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if errors.Is(e.Err, ErrSourceNotFound) {
		return fmt.Sprintf("data file %q not found; make sure the file exists or pass --source", e.Path)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
