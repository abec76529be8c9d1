package logging

import (
	"regexp"
)

const (
	// MaxBodyLogLength is the maximum length of a message body to log
	MaxBodyLogLength = 160
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match potential passwords in connection strings
	// Matches: password=xxx, pwd=xxx, pass=xxx (until next delimiter)
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Pattern to match connection string credentials (user:pass@host format)
	connStringPattern = regexp.MustCompile(`://[^:]+:[^@]+@[^/\s]+`)

	// Pattern to match E.164-ish phone numbers (7+ digits, optional +/spacing)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().-]{6,}\d`)
)

// SanitizePhone masks a phone number for logging, keeping the last four
// digits so an operator can still tell senders apart.
func SanitizePhone(number string) string {
	if number == "" {
		return ""
	}
	digits := 0
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits <= 4 {
		return "***"
	}
	// Keep the trailing four digits as written.
	kept := 0
	cut := len(number)
	for i := len(number) - 1; i >= 0; i-- {
		if number[i] >= '0' && number[i] <= '9' {
			kept++
			if kept == 4 {
				cut = i
				break
			}
		}
	}
	return "***" + number[cut:]
}

// SanitizeBody truncates a message body for logging and masks any phone
// numbers quoted inside it.
func SanitizeBody(body string) string {
	if body == "" {
		return ""
	}
	sanitized := body
	if len(sanitized) > MaxBodyLogLength {
		sanitized = sanitized[:MaxBodyLogLength] + "..."
	}
	return phonePattern.ReplaceAllString(sanitized, RedactedText)
}

// SanitizeConnectionString removes sensitive data from connection strings
// Use this before logging any connection string
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	return sanitized
}

// SanitizeError sanitizes error messages that might contain sensitive data
// Use this before logging any error from database operations
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()
	sanitized := passwordPattern.ReplaceAllString(errStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	return sanitized
}
