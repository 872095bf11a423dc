package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// RequiredString validates that a string is not empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

// Required validates a presence flag computed by the caller, e.g. a non-nil attachment.
func Required(field string, present bool) Rule {
	return Rule{
		Check: func() bool { return present },
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

// MaxRunes counts characters, not bytes.
func MaxRunes(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= max
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters long", max),
		},
	}
}

// ValidEmail validates that a string is a bare email address (no display name).
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			value = strings.TrimSpace(value)
			if value == "" {
				return false
			}

			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != value {
				return false
			}

			local, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || local == "" {
				return false
			}

			// Domain must contain at least one dot and no empty labels.
			if !strings.Contains(domain, ".") {
				return false
			}
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}

			return true
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}

// HexColor validates a #RRGGBB color.
func HexColor(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return hexColorRegex.MatchString(value)
		},
		Error: ValidationError{Field: field, Message: "must be a hex color like #RRGGBB"},
	}
}
