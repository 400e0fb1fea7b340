package builder

import (
	"errors"
	"fmt"
)

// ErrTooFew indicates a size parameter below its minimum.
var ErrTooFew = errors.New("builder: parameter too small")

// ErrUnknownShape indicates a shape name Generate does not know.
var ErrUnknownShape = errors.New("builder: unknown shape")

// builderErrorf prefixes err with the method name, keeping it matchable
// with errors.Is.
func builderErrorf(method string, err error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s: %w", method, fmt.Sprintf(format, args...), err)
}

// ErrTooMany indicates more views than points.
var ErrTooMany = errors.New("builder: parameter too large")
