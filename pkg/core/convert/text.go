package convert

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// TextConverter passes plain text through, with a Latin-1 fallback for
// files that are not valid UTF-8.
type TextConverter struct{}

func (c *TextConverter) Extensions() []string {
	return []string{"txt"}
}

func (c *TextConverter) Convert(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read text file: %w", err)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	return latin1ToString(data), nil
}

// latin1ToString widens each byte into its equivalent rune. Every byte
// sequence is valid Latin-1, so this cannot fail.
func latin1ToString(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String()
}
