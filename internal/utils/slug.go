package utils

import (
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yukikurage/promptvault-api/internal/constants"
)

var slugSeparators = strings.NewReplacer("-", " ", "_", " ", ".", " ")

// MakeSlug derives a URL-safe slug from a display name, cut to MaxSlugLength
func MakeSlug(name string) string {
	s := slug.Make(name)
	if len(s) > constants.MaxSlugLength {
		s = strings.TrimRight(s[:constants.MaxSlugLength], "-_")
	}
	return s
}

// IsSlug reports whether s is already a valid slug that fits the slug columns
func IsSlug(s string) bool {
	return len(s) <= constants.MaxSlugLength && slug.IsSlug(s)
}

// TitleFromSlug turns "research-manager" into "Research Manager"
func TitleFromSlug(s string) string {
	words := strings.Fields(slugSeparators.Replace(s))
	// Casers keep state, so each call gets its own.
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// IsPromptSlug is IsSlug that also allows "." between words, as in "agents.planner"
func IsPromptSlug(s string) bool {
	return IsSlug(strings.ReplaceAll(s, ".", "-"))
}
