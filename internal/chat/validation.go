package chat

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxMessageLength caps a chat message in runes.
const DefaultMaxMessageLength = 1000

var (
	ErrMessageRequired = errors.New("Message is required")
	ErrMessageTooLong  = errors.New("Message too long")
	ErrMessageContent  = errors.New("Invalid input content")
)

var maliciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)on\w+\s*=`),
	regexp.MustCompile(`(?i)<iframe`),
	regexp.MustCompile(`(?i)<object`),
}

// ValidateMessage rejects empty, oversized and script-bearing input.
// maxLen <= 0 selects DefaultMaxMessageLength.
func ValidateMessage(msg string, maxLen int) error {
	if maxLen <= 0 {
		maxLen = DefaultMaxMessageLength
	}
	if strings.TrimSpace(msg) == "" {
		return ErrMessageRequired
	}
	if utf8.RuneCountInString(msg) > maxLen {
		return ErrMessageTooLong
	}
	for _, p := range maliciousPatterns {
		if p.MatchString(msg) {
			return ErrMessageContent
		}
	}
	return nil
}

// rejectReason is the metrics label for a validation error.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrMessageRequired):
		return "empty"
	case errors.Is(err, ErrMessageTooLong):
		return "too_long"
	case errors.Is(err, ErrMessageContent):
		return "content"
	default:
		return "other"
	}
}
