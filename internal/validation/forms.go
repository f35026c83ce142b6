// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

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

// ValidatePassword checks that a password is present and of sane length.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}

	// Prevent unreasonable inputs
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	return nil
}

// ValidateName checks a display name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}

	if len(name) > 100 {
		return fmt.Errorf("name must not exceed 100 characters")
	}

	return nil
}

// ValidatePostForm checks the new-post and edit-post form fields.
func ValidatePostForm(title, subtitle, imgURL, body string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > 250 {
		return fmt.Errorf("title must not exceed 250 characters")
	}
	if strings.TrimSpace(subtitle) == "" {
		return fmt.Errorf("subtitle is required")
	}
	if len(subtitle) > 250 {
		return fmt.Errorf("subtitle must not exceed 250 characters")
	}
	if err := validateImageURL(imgURL); err != nil {
		return err
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("body is required")
	}
	return nil
}

// ValidateCommentText checks a submitted comment.
func ValidateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("comment text is required")
	}
	return nil
}

func validateImageURL(imgURL string) error {
	if strings.TrimSpace(imgURL) == "" {
		return fmt.Errorf("image URL is required")
	}
	u, err := url.ParseRequestURI(imgURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("image URL must be a valid http or https URL")
	}
	return nil
}
