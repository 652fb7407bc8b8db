package domain

import (
	"regexp"
	"strings"
)

var (
	// Пароль: мин 8, буквы в разных регистрах, >=1 цифра, >=1 символ
	upperRe = regexp.MustCompile(`[A-Z]`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	digitRe = regexp.MustCompile(`[0-9]`)
	symRe   = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func ValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	return upperRe.MatchString(s) && lowerRe.MatchString(s) && digitRe.MatchString(s) && symRe.MatchString(s)
}

func ValidStatus(s Status) bool {
	return s == StatusDraft || s == StatusPublished
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
