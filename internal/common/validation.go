package common

import (
	"errors"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
var handleRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Post categories accepted by the feed.
var PostCategories = map[string]bool{
	"GENERAL":    true,
	"FUNNY":      true,
	"EVENT":      true,
	"CONFESSION": true,
	"LOST_FOUND": true,
	"ACADEMIC":   true,
	"SPORTS":     true,
	"NEWS":       true,
	"QUESTION":   true,
}

func ValidateHandle(handle string) error {
	handle = strings.TrimSpace(handle)
	if len(handle) < 3 || len(handle) > 50 {
		return errors.New("handle must be between 3 and 50 characters")
	}

	if !handleRegex.MatchString(handle) {
		return errors.New("handle can only contain letters, numbers, and underscores")
	}

	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters long")
	}

	if len(password) > 100 {
		return errors.New("password is too long")
	}

	return nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}

	return nil
}

// ValidateCategory accepts a known category for writing a post. The
// filter value "all" is not a real category and is rejected here.
func ValidateCategory(category string) error {
	if category == "" {
		return nil
	}
	if !PostCategories[category] {
		return errors.New("unknown category")
	}
	return nil
}

// ValidateFilterCategory accepts what feed filters may carry: a known
// category, "all", or empty.
func ValidateFilterCategory(category string) error {
	if category == "all" {
		return nil
	}
	return ValidateCategory(category)
}
