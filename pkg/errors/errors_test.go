package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(NewStore("load", errors.New("disk"))))
	assert.True(t, IsFatal(NewConfiguration("missing key", nil)))
	assert.True(t, IsFatal(NewFatal("every query failed", nil)))

	assert.False(t, IsFatal(NewExtraction("item-1", "page fetch", errors.New("timeout"))))
	assert.False(t, IsFatal(NewAlert("item-1", "send", errors.New("503"))))
	assert.False(t, IsFatal(NewExport("upload", errors.New("503"))))
	assert.False(t, IsFatal(errors.New("plain error")))
}

func TestErrorMessageIncludesIdentity(t *testing.T) {
	err := NewExtraction("echo-dot", "no rows", nil)
	assert.Contains(t, err.Error(), "echo-dot")
	assert.Contains(t, err.Error(), "no rows")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStore("persist", cause)
	assert.True(t, errors.Is(fmt.Errorf("run: %w", err), cause))
}
