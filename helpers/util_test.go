package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSplitPart(t *testing.T) {
	part, err := GetSplitPart("a/b/c", "/", 1)
	assert.NoError(t, err)
	assert.Equal(t, "b", part)

	_, err = GetSplitPart("a/b", "/", 5)
	assert.Error(t, err)
}

func TestSearchTag(t *testing.T) {
	assert.Equal(t, "amazon_echo_dot", SearchTag("amazon echo dot"))
	assert.Equal(t, "usb_c_cable", SearchTag("  usb   c cable "))
	assert.Equal(t, "ssd", SearchTag("ssd"))
	assert.Equal(t, "", SearchTag("   "))
}
