package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var (
	uppercaseRegex   = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex       = regexp.MustCompile(`[0-9]`)
	specialCharRegex = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?~` + "`" + `]`)
)

// Required validates that a string is not blank.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{Field: field, Message: "is required"},
	}
}

// ValidEmail validates that a string is a usable email address.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}

			addr, err := mail.ParseAddress(value)
			if err != nil {
				return false
			}

			parts := strings.Split(addr.Address, "@")
			if len(parts) != 2 {
				return false
			}

			local, domain := parts[0], parts[1]
			if local == "" {
				return false
			}

			// Domain must contain at least one dot and no empty labels.
			if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
				return false
			}
			for _, part := range strings.Split(domain, ".") {
				if part == "" {
					return false
				}
			}

			return true
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}

// PasswordStrengthConfig controls StrongPassword requirements.
type PasswordStrengthConfig struct {
	MinLength      int
	MaxLength      int
	MinCharClasses int // minimum number of different character classes
}

// DefaultPasswordStrength returns the policy applied to signup and reset:
// 8-128 characters from at least two character classes.
func DefaultPasswordStrength() PasswordStrengthConfig {
	return PasswordStrengthConfig{
		MinLength:      8,
		MaxLength:      128,
		MinCharClasses: 2,
	}
}

func StrongPassword(field, value string, config PasswordStrengthConfig) Rule {
	return Rule{
		Check: func() bool {
			if len(value) < config.MinLength || len(value) > config.MaxLength {
				return false
			}

			charClasses := 0
			for _, re := range []*regexp.Regexp{uppercaseRegex, lowercaseRegex, digitRegex, specialCharRegex} {
				if re.MatchString(value) {
					charClasses++
				}
			}

			return charClasses >= config.MinCharClasses
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("password must be %d-%d characters with required character types", config.MinLength, config.MaxLength),
		},
	}
}

// NumericCode validates that a value is exactly length digits, preserving
// leading zeros (no numeric coercion).
func NumericCode(field, value string, length int) Rule {
	return Rule{
		Check: func() bool {
			if len(value) != length {
				return false
			}
			for _, r := range value {
				if r < '0' || r > '9' {
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be a %d-digit code", length),
		},
	}
}

// InRange validates that a float lies within [min, max].
func InRange(field string, value, min, max float64) Rule {
	return Rule{
		Check: func() bool {
			return value >= min && value <= max
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between %g and %g", min, max),
		},
	}
}
