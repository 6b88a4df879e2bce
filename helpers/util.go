package helpers

import (
	"errors"
	"net/url"
	"strings"
)

// GetSplitPart returns the index'th part of target split on separate.
// A negative index counts from the end.
func GetSplitPart(target string, separate string, index int) (string, error) {
	parts := strings.Split(target, separate)
	if index < 0 {
		index += len(parts)
	}
	if index < 0 || index >= len(parts) {
		return "", errors.New("index out of range")
	}
	return parts[index], nil
}

// AbsoluteURL resolves href against base. Relative hrefs are joined onto
// the base; already-absolute hrefs pass through untouched. An unparsable
// href resolves to the empty string.
func AbsoluteURL(base string, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(u).String()
}

// FirstAttr returns the first non-empty value among candidates.
func FirstAttr(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}
