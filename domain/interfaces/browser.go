package interfaces

import (
	"context"
	"time"
)

// Session is a live connection to one browser page. Keys are element ids;
// no element handle outlives a single call.
//
// Implementations wrap driver failures with the sentinels in entities:
// ErrStaleElement, ErrElementNotFound and ErrLookupTimeout.
type Session interface {
	// Navigate opens the URL in the page
	Navigate(ctx context.Context, url string) error

	// Text locates the element once, without waiting, and returns its displayed text
	Text(ctx context.Context, key string) (string, error)

	// WaitText waits up to timeout for the element to be present, then returns its text
	WaitText(ctx context.Context, key string, timeout time.Duration) (string, error)

	// WaitClickable waits up to timeout for the element to be visible and enabled, without clicking
	WaitClickable(ctx context.Context, key string, timeout time.Duration) error

	// WaitClick waits up to timeout for the element to be clickable, then clicks it
	WaitClick(ctx context.Context, key string, timeout time.Duration) error

	// ClickText clicks the first element whose text contains fragment
	ClickText(ctx context.Context, fragment string, timeout time.Duration) error

	// Detach releases the driver connection and leaves the browser running
	Detach() error
}

// Launcher starts a browser process that outlives the program
type Launcher interface {
	// Launch starts the browser and returns its DevTools websocket URL
	Launch(ctx context.Context) (string, error)
}
