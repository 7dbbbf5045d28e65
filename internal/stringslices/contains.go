package stringslices

import "strings"

func ContainsIgnoreCase(a []string, s string) bool {
	for _, v := range a {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// ContainsAnySubstring reports whether text contains any of substrs, ignoring case.
func ContainsAnySubstring(text string, substrs []string) bool {
	lower := strings.ToLower(text)
	for _, sub := range substrs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
