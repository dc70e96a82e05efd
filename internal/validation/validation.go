// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"

	"datagov/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}

	if len(username) > 30 {
		return fmt.Errorf("username must not exceed 30 characters")
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}

	if username[0] == '_' || username[0] == '-' || username[len(username)-1] == '_' || username[len(username)-1] == '-' {
		return fmt.Errorf("username cannot start or end with underscore or hyphen")
	}

	return nil
}

// ValidateRoles checks that every role name is one of the known roles.
func ValidateRoles(roles models.RoleList) error {
	for _, r := range roles {
		if !models.ValidRole(r) {
			return fmt.Errorf("unknown role %q", r)
		}
	}
	return nil
}

// ValidatePostStatus checks a post status value.
func ValidatePostStatus(status string) error {
	if !models.ValidPostStatus(status) {
		return fmt.Errorf("unknown post status %q", status)
	}
	return nil
}

// ValidateContentFilter checks a preferences content filter level.
func ValidateContentFilter(level string) error {
	if !models.ValidContentFilter(level) {
		return fmt.Errorf("unknown content filter level %q", level)
	}
	return nil
}
