package normalization

import (
  "strings"
)

func ParseInputString(input string) string {
  normalized := strings.ToLower(strings.TrimSpace(input))
  return normalized
}

// ParseTopicString trims and collapses inner whitespace but keeps the user's
// casing; topic names are display text, not identifiers.
func ParseTopicString(input string) string {
  return strings.Join(strings.Fields(input), " ")
}
