package models

import (
	"sort"
	"strings"
)

// ValidationErrors maps a field name to a human readable message.
// A nil map means the input was valid.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+" "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
