package helpers

import (
	"errors"
	"strings"
)

func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}

// SearchTag turns a search term into the stable key used for snapshot files
// and export sheet names ("amazon echo dot" -> "amazon_echo_dot").
func SearchTag(term string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(term)), "_")
}
