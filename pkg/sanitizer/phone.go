package sanitizer

import (
	"regexp"
	"strings"
)

var (
	rePhoneNoise = regexp.MustCompile(`[\s\-().]`)
	reE164       = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
)

// NormalizePhone strips separators and enforces E.164 shape. Returns the
// empty string for input it cannot normalize; validators treat that as
// "not provided".
func NormalizePhone(phone string) string {
	s := rePhoneNoise.ReplaceAllString(strings.TrimSpace(phone), "")
	if s == "" {
		return ""
	}

	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}

	if !reE164.MatchString(s) {
		return ""
	}
	return s
}
