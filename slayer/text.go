package slayer

import (
	"errors"
	"regexp"
	"strings"
)

var (
	brTag      = regexp.MustCompile(`(?i)<br\s*/?>`)
	markupTag  = regexp.MustCompile(`<[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Sanitize strips colour and formatting tags from widget or chat text and
// joins multi-line dialog into a single line.
func Sanitize(s string) string {
	s = brTag.ReplaceAllString(s, " ")
	s = markupTag.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

const (
	devTaskAmount  = 42
	devTaskMaxName = 50
)

var devTaskInvalid = regexp.MustCompile(`[^a-zA-Z0-9' -]`)

var ErrEmptyTaskName = errors.New("slayer: empty task name")

// DevTask builds a fake assignment for manual testing. Characters outside
// letters, digits, apostrophes, spaces and hyphens are dropped and the name
// is cut to 50 characters.
func DevTask(name string) (Assigned, error) {
	name = strings.TrimSpace(devTaskInvalid.ReplaceAllString(name, ""))
	if len(name) > devTaskMaxName {
		name = strings.TrimSpace(name[:devTaskMaxName])
	}
	if name == "" {
		return Assigned{}, ErrEmptyTaskName
	}
	return Assigned{Name: name, Amount: devTaskAmount, InitialAmount: devTaskAmount}, nil
}
