package progress

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedLanguage is returned for languages without content.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// SupportedLanguages lists the target languages in menu order.
var SupportedLanguages = []string{"Italian", "French", "Spanish", "Japanese"}

// NormalizeLanguage maps any casing of a supported language to its
// canonical name.
func NormalizeLanguage(s string) (string, error) {
	for _, l := range SupportedLanguages {
		if strings.EqualFold(strings.TrimSpace(s), l) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}
