package http

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/tab"
)

// Request size limits (in bytes)
const (
	MaxBodySize    = 1 * 1024 * 1024 // 1MB - frame documents are the largest payload
	MaxQueryLength = 2048
	MaxInputLength = 8192
)

// ValidateSessionID checks that id is a well-formed session id
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("session id is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid session id %q", id)
	}
	return nil
}

// ParseTabID parses a tab id path parameter
func ParseTabID(raw string) (tab.ID, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid tab id %q", raw)
	}
	return tab.ID(n), nil
}

// ValidateLength rejects oversized free-form input
func ValidateLength(value, field string, max int) error {
	if len(value) > max {
		return fmt.Errorf("%s exceeds %d characters", field, max)
	}
	return nil
}
