package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "pageID" -> "page ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"pageID": "page ID",
		"rootID": "root page ID",
		"body":   "body",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidatePageID checks that id looks like a remote page ID (digits only).
func ValidatePageID(fieldName, id string) error {
	if err := ValidateRequired(fieldName, id); err != nil {
		return err
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("expected numeric %s, got: %s", formatFieldName(fieldName), id),
			}
		}
	}
	return nil
}
