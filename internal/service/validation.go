package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/namgiho96/giho-blog/internal/models"
)

// normalizeContent trims content and enforces the non-empty and length rules.
func normalizeContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(trimmed) > models.MaxCommentLength {
		return "", models.NewValidationError(
			fmt.Sprintf("Comment must be %d characters or fewer", models.MaxCommentLength))
	}
	return trimmed, nil
}

// requireSessionID rejects blank ids. The id itself is used as sent: two ids
// that differ only in whitespace are two sessions.
func requireSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return models.NewValidationError("sessionId is required")
	}
	return nil
}
