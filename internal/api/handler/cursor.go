package handler

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/storage"
)

// DecodeJobCursor parses an opaque page cursor. An empty string means the first page.
func DecodeJobCursor(cursorStr string) (*storage.JobCursor, error) {
	if cursorStr == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(cursorStr)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor encoding: %w", err)
	}

	createdAtPart, jobID, ok := strings.Cut(string(decoded), "|")
	if !ok || jobID == "" {
		return nil, fmt.Errorf("invalid cursor format")
	}

	var createdAt int64
	if _, err := fmt.Sscanf(createdAtPart, "%d", &createdAt); err != nil {
		return nil, fmt.Errorf("invalid createdAt in cursor: %w", err)
	}

	return &storage.JobCursor{
		CreatedAt: time.Unix(0, createdAt).UTC(),
		JobID:     jobID,
	}, nil
}

func EncodeJobCursor(cursor *storage.JobCursor) string {
	cs := fmt.Sprintf("%d|%s", cursor.CreatedAt.UnixNano(), cursor.JobID)
	return base64.RawURLEncoding.EncodeToString([]byte(cs))
}
