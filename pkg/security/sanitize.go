package security

import "strings"

const (
	// FieldSeparator separates fields of a persisted record line.
	FieldSeparator = ","
)

// recordBreakers are removed from free-text fields so a value can neither add a
// field to its line nor start a new line.
var recordBreakers = strings.NewReplacer(FieldSeparator, "", "\r", "", "\n", "")

// SanitizeRecordField strips the field separator and line breaks from a value
// destined for a flat record line.
func SanitizeRecordField(value string) string {
	if value == "" {
		return ""
	}
	return recordBreakers.Replace(value)
}

