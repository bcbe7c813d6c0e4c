package entities

import "errors"

var (
	// ErrStaleElement means the element was located but became invalid before
	// or while it was used (the page re-rendered it).
	ErrStaleElement = errors.New("stale element reference")

	// ErrElementNotFound means nothing matched the key at lookup time.
	ErrElementNotFound = errors.New("element not found")

	// ErrLookupTimeout means a bounded wait for the element expired.
	ErrLookupTimeout = errors.New("element lookup timed out")

	// ErrBrowserNotFound means the configured browser executable does not exist.
	ErrBrowserNotFound = errors.New("browser executable not found")

	// ErrUnparsable means displayed text was not a well-formed number.
	ErrUnparsable = errors.New("unparsable number")
)
