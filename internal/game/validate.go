package game

import (
	"errors"
	"strings"
)

// WordLength is the only supported word length.
const WordLength = 5

type Reason string

const (
	NotAlphabetic   Reason = "not_alphabetic"
	TooShort        Reason = "too_short"
	TooLong         Reason = "too_long"
	NotInDictionary Reason = "not_in_dictionary"
)

var ErrInvalidGuess = errors.New("invalid guess")

// ValidationError carries the first rule a guess failed.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case NotAlphabetic:
		return "guess must contain letters only"
	case TooShort:
		return "guess is too short"
	case TooLong:
		return "guess is too long"
	case NotInDictionary:
		return "guess is not in the word list"
	}
	return ErrInvalidGuess.Error()
}

func (e *ValidationError) Unwrap() error { return ErrInvalidGuess }

// ReasonOf returns the validation reason carried by err, if any.
func ReasonOf(err error) (Reason, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return "", false
}

// Dictionary answers membership for uppercase words.
type Dictionary interface {
	Contains(word string) bool
}

// CheckStructure applies the rules shared by player and authority and
// returns the uppercase guess. Whitespace is not a letter.
func CheckStructure(s string) (string, error) {
	for i := 0; i < len(s); i++ {
		if !isLetter(s[i]) {
			return "", &ValidationError{Reason: NotAlphabetic}
		}
	}
	switch {
	case len(s) < WordLength:
		return "", &ValidationError{Reason: TooShort}
	case len(s) > WordLength:
		return "", &ValidationError{Reason: TooLong}
	}
	return strings.ToUpper(s), nil
}

// Validator is the authority-side guess check.
type Validator struct {
	dict Dictionary
}

func NewValidator(dict Dictionary) *Validator {
	return &Validator{dict: dict}
}

func (v *Validator) Validate(raw string) (string, error) {
	guess, err := CheckStructure(raw)
	if err != nil {
		return "", err
	}
	if v.dict == nil || !v.dict.Contains(guess) {
		return "", &ValidationError{Reason: NotInDictionary}
	}
	return guess, nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
