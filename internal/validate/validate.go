// Package validate checks request payloads field by field and accumulates
// every violation instead of stopping at the first.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

// FieldError is one violated constraint on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var phonePattern = regexp.MustCompile(`^[0-9\s\-\+\(\)]*$`)

// Errors collects field errors across a payload.
type Errors struct {
	list []FieldError
}

func (e *Errors) Add(field, message string) {
	e.list = append(e.list, FieldError{Field: field, Message: message})
}

// List returns all accumulated errors, nil when the payload is valid.
func (e *Errors) List() []FieldError {
	return e.list
}

func (e *Errors) Empty() bool {
	return len(e.list) == 0
}

// Required trims the value and records an error when nothing remains.
// Returns the trimmed value either way.
func (e *Errors) Required(field, value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		e.Add(field, field+" is required")
	}
	return trimmed
}

// MaxLen checks the trimmed value against a character budget.
func (e *Errors) MaxLen(field, value string, max int) string {
	trimmed := strings.TrimSpace(value)
	if len([]rune(trimmed)) > max {
		e.Add(field, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return trimmed
}

// Email validates an optional email address. Empty string means absent.
func (e *Errors) Email(field, value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) > 255 {
		e.Add(field, field+" must be at most 255 characters")
		return trimmed
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		e.Add(field, "invalid email address")
	}
	return trimmed
}

// Phone validates an optional phone number: digits, spaces, -, +, ().
func (e *Errors) Phone(field, value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) > 20 {
		e.Add(field, field+" must be at most 20 characters")
	}
	if !phonePattern.MatchString(trimmed) {
		e.Add(field, field+" contains invalid characters")
	}
	return trimmed
}

// URL validates an optional absolute URL.
func (e *Errors) URL(field, value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		e.Add(field, "invalid URL")
	}
	return trimmed
}

// LinkedinURL validates an optional URL that must point at linkedin.com.
func (e *Errors) LinkedinURL(field, value string) string {
	trimmed := e.URL(field, value)
	if trimmed != "" && !strings.Contains(trimmed, "linkedin.com") {
		e.Add(field, "must be a LinkedIn URL")
	}
	return trimmed
}

// Enum checks an optional value against a fixed set.
func (e *Errors) Enum(field, value string, allowed ...string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	for _, candidate := range allowed {
		if trimmed == candidate {
			return trimmed
		}
	}
	e.Add(field, fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", ")))
	return trimmed
}

// Tags trims every tag and checks cardinality and per-tag length.
// Empty-after-trim tags are violations, not silently dropped.
func (e *Errors) Tags(field string, tags []string, maxTags, maxLen int) []string {
	if len(tags) > maxTags {
		e.Add(field, fmt.Sprintf("maximum %d tags allowed", maxTags))
	}
	out := make([]string, 0, len(tags))
	for i, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			e.Add(fmt.Sprintf("%s[%d]", field, i), "tag cannot be empty")
			continue
		}
		if len([]rune(trimmed)) > maxLen {
			e.Add(fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("tag must be at most %d characters", maxLen))
		}
		out = append(out, trimmed)
	}
	return out
}

// StringList checks an array field's cardinality and per-element budget.
func (e *Errors) StringList(field string, items []string, maxItems, maxLen int) []string {
	if len(items) > maxItems {
		e.Add(field, fmt.Sprintf("maximum %d items allowed", maxItems))
	}
	for i, item := range items {
		if len([]rune(item)) > maxLen {
			e.Add(fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("item must be at most %d characters", maxLen))
		}
	}
	return items
}

// Match checks an optional value against a pattern.
func (e *Errors) Match(field, value string, pattern *regexp.Regexp, message string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if !pattern.MatchString(trimmed) {
		e.Add(field, message)
	}
	return trimmed
}
