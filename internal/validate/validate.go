// Package validate holds the server-side checks behind the signup and
// sample forms.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxEmailLength    = 254
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	MsgInvalidEmail    = "Please enter a valid email address."
	MsgInvalidPassword = "Password must be at least 6 characters long."
	MsgSignupOK        = "Both email and password are valid!"
	MsgSampleMissing   = "Please provide both name and email and favourite color."
	MsgSampleOK        = "Form submitted successfully!"
)

func Email(email string) bool {
	e := strings.TrimSpace(email)
	return e != "" && len(e) <= MaxEmailLength && emailPattern.MatchString(e)
}

func Password(password string) bool {
	n := utf8.RuneCountInString(password)
	return n >= MinPasswordLength && n <= MaxPasswordLength
}

// Outcome is a pass/fail verdict plus the message shown to the user.
type Outcome struct {
	OK      bool
	Message string
}

// Signup checks the email first, then the password, and reports the first
// failure only.
func Signup(email, password string) Outcome {
	if !Email(email) {
		return Outcome{Message: MsgInvalidEmail}
	}
	if !Password(password) {
		return Outcome{Message: MsgInvalidPassword}
	}
	return Outcome{OK: true, Message: MsgSignupOK}
}

// Sample requires all three fields to be non-blank.
func Sample(name, email, favouriteColor string) Outcome {
	for _, v := range []string{name, email, favouriteColor} {
		if strings.TrimSpace(v) == "" {
			return Outcome{Message: MsgSampleMissing}
		}
	}
	return Outcome{OK: true, Message: MsgSampleOK}
}
