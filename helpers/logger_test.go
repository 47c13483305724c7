package helpers

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "error.log")

	// Create a logger
	logger := NewLogger(tmpFile)

	// Log an error
	logger.LogError("echo-dot", errors.New("test error"))

	// Check that the file was created and contains the error
	data, err := os.ReadFile(tmpFile)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "echo-dot")
	assert.Contains(t, string(data), "test error")

	// Log an info message
	logger.LogInfo("Test info message: %s", "hello")

	// Info messages are logged to stdout, not the file
	// We can't easily test this without capturing stdout
}
