// Package sanitize normalizes user-supplied text before it is persisted to
// the host or re-displayed. Every mutation path runs through these helpers.
package sanitize

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPriority is used whenever a priority value is missing or unparsable.
const DefaultPriority = "5"

// Priority bounds. Smaller numbers are more urgent.
const (
	MinPriority = 1
	MaxPriority = 10
)

// Text strips the characters <, >, " and ' from s. The host renders item
// text verbatim in contexts that would otherwise allow markup injection.
func Text(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '"', '\'':
			return -1
		}
		return r
	}, s)
}

// Priority parses v as an integer, clamps it to [MinPriority, MaxPriority]
// and returns it as a string. Unparsable input yields DefaultPriority.
func Priority(v string) string {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return DefaultPriority
	}
	return strconv.Itoa(ClampPriority(n))
}

// ClampPriority clamps n to the valid priority range.
func ClampPriority(n int) int {
	if n < MinPriority {
		return MinPriority
	}
	if n > MaxPriority {
		return MaxPriority
	}
	return n
}

// URL normalizes raw into an absolute http(s) URL. A missing scheme gets
// https:// prepended. Anything that fails to parse, or uses a scheme other
// than http/https, collapses to the empty string.
func URL(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	return u.String()
}
