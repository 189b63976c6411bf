package auth

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 24
)

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	disallowedChars = regexp.MustCompile(`[^a-z0-9_]`)
)

// WithSuffix appends "_n" to base, cutting base short so the result never
// exceeds MaxUsernameLen.
func WithSuffix(base string, n int) string {
	suffix := "_" + strconv.Itoa(n)
	maxBase := max(1, MaxUsernameLen-len(suffix))
	if len(base) > maxBase {
		base = base[:maxBase]
	}
	return base + suffix
}

// Suggestions returns the alternative usernames offered when base is taken.
// They are hints only; availability is not checked.
func Suggestions(base string) []string {
	out := make([]string, 0, 3)
	for n := 1; n <= 3; n++ {
		out = append(out, WithSuffix(base, n))
	}
	return out
}

// UsernameFromEmail derives a username candidate from the local part of an email.
func UsernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")

	name := strings.ToLower(strings.TrimSpace(local))
	name = whitespaceRun.ReplaceAllString(name, "_")
	name = disallowedChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if len(name) > MaxUsernameLen {
		name = name[:MaxUsernameLen]
	}
	if name == "" {
		return "user"
	}
	return name
}
