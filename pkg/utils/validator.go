package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	unsafeInName = regexp.MustCompile(`[\x00-\x1f\x7f/\\:*?"<>|]`)
	runsOfSpaces = regexp.MustCompile(`\s+`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// SanitizeFilename returns a filesystem-safe version of name: path
// separators and control characters are removed and runs of whitespace
// collapse to a single underscore. Client names feed straight into
// artifact filenames so this has to hold for anything a Jira field can
// contain.
func SanitizeFilename(name string) string {
	cleaned := unsafeInName.ReplaceAllString(name, "")
	cleaned = runsOfSpaces.ReplaceAllString(strings.TrimSpace(cleaned), "_")
	return cleaned
}
