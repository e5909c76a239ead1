package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/inkwellhq/inkwell/internal/types"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Collector accumulates validation errors without failing on first.
type Collector struct {
	errors []ValidationError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *ValidationError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// HasErrors returns true if the collector has accumulated any errors.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []ValidationError {
	return c.errors
}

// ValidateRequired returns an error if the value is empty or whitespace-only.
func ValidateRequired(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   field,
			Message: "is required",
		}
	}
	return nil
}

// ValidateMaxLength returns an error if the value exceeds max runes.
func ValidateMaxLength(field, value string, max int) *ValidationError {
	if utf8.RuneCountInString(value) > max {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("exceeds maximum length of %d characters", max),
		}
	}
	return nil
}

// ValidateColor returns an error if the value is not a #rgb or #rrggbb hex
// color. Empty is allowed; the store falls back to the default color.
func ValidateColor(field, value string) *ValidationError {
	if value == "" {
		return nil
	}
	if len(value) != 4 && len(value) != 7 {
		return &ValidationError{Field: field, Message: "must be a hex color like #007bff"}
	}
	if value[0] != '#' {
		return &ValidationError{Field: field, Message: "must be a hex color like #007bff"}
	}
	for _, r := range value[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return &ValidationError{Field: field, Message: "must be a hex color like #007bff"}
		}
	}
	return nil
}

// ValidateFolderFields checks the writable folder fields.
func ValidateFolderFields(name, description, color string) []ValidationError {
	var c Collector
	c.Add(ValidateRequired("name", name))
	c.Add(ValidateMaxLength("name", name, types.MaxFolderNameLength))
	c.Add(ValidateMaxLength("description", description, types.MaxFolderDescriptionLength))
	c.Add(ValidateColor("color", color))
	return c.Errors()
}

// ValidateNoteFields checks the writable note fields.
func ValidateNoteFields(title, content string) []ValidationError {
	var c Collector
	c.Add(ValidateRequired("title", title))
	c.Add(ValidateMaxLength("title", title, types.MaxNoteTitleLength))
	c.Add(ValidateRequired("content", content))
	c.Add(ValidateMaxLength("content", content, types.MaxNoteContentLength))
	return c.Errors()
}

// NormalizeTags trims each tag and drops empties. Order is preserved and
// duplicates are kept as entered.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// SplitTags parses a comma-separated tag string the way the note form
// submits it.
func SplitTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}
