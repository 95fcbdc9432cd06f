// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

const (
	postTextMinLen     = 15
	responseTextMaxLen = 50
)

// ValidatePost checks the board rules for a post: the title must be present,
// start with an uppercase letter, and differ from the text; the text must be
// at least 15 characters.
func ValidatePost(title, text string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}

	first, _ := utf8.DecodeRuneInString(title)
	if first == utf8.RuneError || !unicode.IsUpper(first) {
		return fmt.Errorf("the title must begin with a big letter")
	}

	if title == text {
		return fmt.Errorf("the title cannot be identical to the text")
	}

	if utf8.RuneCountInString(text) < postTextMinLen {
		return fmt.Errorf("text must be at least %d characters long", postTextMinLen)
	}

	return nil
}

// ValidateResponseText checks the length bounds for a response.
func ValidateResponseText(text string) error {
	if text == "" {
		return fmt.Errorf("text is required")
	}
	if utf8.RuneCountInString(text) > responseTextMaxLen {
		return fmt.Errorf("text must not exceed %d characters", responseTextMaxLen)
	}
	return nil
}

// ValidateGender checks that gender is one of the accepted values.
func ValidateGender(gender string) error {
	if gender != "male" && gender != "female" {
		return fmt.Errorf("gender must be either male or female")
	}
	return nil
}
