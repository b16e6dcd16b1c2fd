// Package validation holds field rules that are shared between the form layer
// and anything else that accepts driver input.
package validation

import (
	"regexp"
	"unicode/utf8"
)

const (
	LicenseNumberLength = 8
	licensePrefixLength = 3
)

var (
	licensePrefixRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	licenseSuffixRegex = regexp.MustCompile(`^[0-9]{5}$`)
)

// ValidationError is a rule failure with a stable code and a message fit for
// showing next to the offending field.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrLicenseLength = &ValidationError{
		Code:    "license_length",
		Message: "License number should consist of 8 characters",
	}
	ErrLicensePrefix = &ValidationError{
		Code:    "license_prefix",
		Message: "First 3 characters should be uppercase letters",
	}
	ErrLicenseSuffix = &ValidationError{
		Code:    "license_suffix",
		Message: "Last 5 characters should be digits",
	}
)

// ValidateLicenseNumber checks value against the AAA99999 format and returns
// it unchanged on success. Rules are checked in order: length, prefix, suffix.
func ValidateLicenseNumber(value string) (string, error) {
	if utf8.RuneCountInString(value) != LicenseNumberLength {
		return "", ErrLicenseLength
	}

	runes := []rune(value)
	if !licensePrefixRegex.MatchString(string(runes[:licensePrefixLength])) {
		return "", ErrLicensePrefix
	}
	if !licenseSuffixRegex.MatchString(string(runes[licensePrefixLength:])) {
		return "", ErrLicenseSuffix
	}

	return value, nil
}
