package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"autoclicker/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "detached", err: errors.New("Element is not attached to the DOM"), want: entities.ErrStaleElement},
		{name: "context destroyed", err: errors.New("Execution context was destroyed, most likely because of a navigation"), want: entities.ErrStaleElement},
		{name: "cdp node", err: errors.New("{-32000 Could not find node with given id}"), want: entities.ErrStaleElement},
		{name: "deadline", err: fmt.Errorf("waiting: %w", context.DeadlineExceeded), want: entities.ErrLookupTimeout},
		{name: "not found", err: errors.New("cannot find element"), want: entities.ErrElementNotFound},
		{name: "webdriver stale", err: errors.New("stale element reference: element is not attached to the page document"), want: entities.ErrStaleElement},
		{name: "webdriver missing", err: errors.New("no such element: Unable to locate element: {\"method\":\"css selector\",\"selector\":\"#cookies\"}"), want: entities.ErrElementNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(ctx, "read", "cookies", tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
			assert.Contains(t, got.Error(), "read cookies")
		})
	}
}

func TestClassifyPassesThroughUnknownErrors(t *testing.T) {
	err := classify(context.Background(), "click", "bigCookie", errors.New("websocket: close 1006"))

	assert.Error(t, err)
	assert.NotErrorIs(t, err, entities.ErrStaleElement)
	assert.NotErrorIs(t, err, entities.ErrLookupTimeout)
	assert.NotErrorIs(t, err, entities.ErrElementNotFound)
}

func TestClassifyCallerCancellationWins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := classify(ctx, "wait", "cookies", context.DeadlineExceeded)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, entities.ErrLookupTimeout)
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, classify(context.Background(), "read", "cookies", nil))
}

func TestSelectors(t *testing.T) {
	assert.Equal(t, "#productPrice3", idSelector("productPrice3"))
	assert.Equal(t, "//*[contains(text(), 'English')]", textXPath(entities.LanguageFragment))
}
