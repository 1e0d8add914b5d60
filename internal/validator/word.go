package validator

import (
	"errors"
	"regexp"
)

// ErrInvalidWord is returned for input containing anything other than
// ASCII letters and whitespace.
var ErrInvalidWord = errors.New("only English letters and spaces are allowed")

var allowedInput = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// WordValidator checks chat input before it reaches the definition
// provider. Input is neither trimmed nor case-folded, so "Apple" and
// "apple" stay distinct words.
type WordValidator struct {
	pattern *regexp.Regexp
}

func NewWordValidator() *WordValidator {
	return &WordValidator{pattern: allowedInput}
}

// Validate returns ErrInvalidWord unless input is one or more ASCII
// letters or whitespace characters.
func (v *WordValidator) Validate(input string) error {
	if !v.pattern.MatchString(input) {
		return ErrInvalidWord
	}
	return nil
}

// IsValidWord is the boolean form of Validate.
func (v *WordValidator) IsValidWord(input string) bool {
	return v.Validate(input) == nil
}
