package parser

import "strings"

// ParseTriState maps a cell value to a tri-state boolean. Recognized truthy
// values are "true", "1", "yes", "y"; falsy are "false", "0", "no", "n",
// matched case-insensitively. Anything else, including an empty or absent
// cell, is unknown (nil). The parse is total: no input is an error.
func ParseTriState(value string) *bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "y":
		return boolPtr(true)
	case "false", "0", "no", "n":
		return boolPtr(false)
	default:
		return nil
	}
}

func boolPtr(b bool) *bool {
	return &b
}
