package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	slugInvalid = regexp.MustCompile("[^a-z0-9]+")

	ErrInvalidID = errors.New("id must be a positive integer")
)

// GenerateSlug turns a category name into the token used in catalog filters,
// e.g. "Hair Care & Styling" -> "hair-care-styling". Every run of characters
// outside [a-z0-9] becomes a single hyphen.
func GenerateSlug(input string) string {
	s := slugInvalid.ReplaceAllString(strings.ToLower(input), "-")
	return strings.Trim(s, "-")
}

// ParsePositiveID parses a numeric path segment such as a product ID.
func ParsePositiveID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
