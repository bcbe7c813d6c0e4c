package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"autoclicker/domain/entities"
)

// CDP and WebDriver messages that mean a node or its execution context went away after lookup
var staleMarkers = []string{
	"not attached to the dom",
	"element is detached",
	"node is detached",
	"execution context was destroyed",
	"cannot find context with specified id",
	"could not find node with given id",
	"no node with given id",
	"node with given id does not belong to the document",
	"cannot find object with id",
	"stale element reference",
}

var notFoundMarkers = []string{
	"no element found",
	"cannot find element",
	"could not compute box model",
	"no such element",
}

// classify wraps a driver error with the entities sentinel it corresponds to.
// ctx is the caller's context: its cancellation is passed through unchanged.
func classify(ctx context.Context, op, key string, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s %s: %w", op, key, ctxErr)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w: %w", op, key, entities.ErrLookupTimeout, err)
	}

	msg := strings.ToLower(err.Error())
	for _, m := range staleMarkers {
		if strings.Contains(msg, m) {
			return fmt.Errorf("%s %s: %w: %w", op, key, entities.ErrStaleElement, err)
		}
	}
	for _, m := range notFoundMarkers {
		if strings.Contains(msg, m) {
			return fmt.Errorf("%s %s: %w: %w", op, key, entities.ErrElementNotFound, err)
		}
	}

	return fmt.Errorf("%s %s: %w", op, key, err)
}

func idSelector(key string) string {
	return "#" + key
}

func textXPath(fragment string) string {
	return fmt.Sprintf("//*[contains(text(), '%s')]", fragment)
}
