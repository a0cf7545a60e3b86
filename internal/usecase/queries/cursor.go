package queries

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MaxListLimit    = 200
	CursorVersionV1 = "v1"
)

type Cursor struct {
	After string `json:"after,omitempty"`
}

// EncodeAfterCursor points just past the order with the given creation time
// and id. Microsecond precision matches the journal's timestamp columns.
func EncodeAfterCursor(t time.Time, id string) string {
	cursorData := fmt.Sprintf("%s:%d-%s", CursorVersionV1, t.UnixMicro(), id)
	return base64.URLEncoding.EncodeToString([]byte(cursorData))
}

func DecodeAfterCursor(cursor string) (time.Time, string, error) {
	if cursor == "" {
		return time.Time{}, "", fmt.Errorf("cursor cannot be empty")
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid cursor encoding: %w", err)
	}
	payload, ok := strings.CutPrefix(string(decoded), CursorVersionV1+":")
	if !ok {
		return time.Time{}, "", fmt.Errorf("unsupported cursor version")
	}

	parts := strings.SplitN(payload, "-", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("invalid cursor format: expected '<micros>-<id>'")
	}

	timestamp, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid timestamp: %w", err)
	}

	return time.UnixMicro(timestamp), parts[1], nil
}

// ValidateLimit clamps limit to MaxListLimit; zero or less means unlimited.
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 0
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
