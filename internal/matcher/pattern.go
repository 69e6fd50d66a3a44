package matcher

import (
	"regexp"
	"strings"
)

// PatternOptions control string pattern matching.
type PatternOptions struct {
	// Literal treats the pattern as a plain substring instead of a regexp.
	Literal bool

	// IgnoreCase makes the match case-insensitive.
	IgnoreCase bool

	// Multiline makes ^ and $ anchor per line.
	Multiline bool

	// Fully anchors the pattern to the whole subject (implicit \A...\z).
	Fully bool
}

// MatchPattern reports whether s matches pattern under opts.
//
// The pattern uses Go regexp syntax unless opts.Literal is set. An invalid
// pattern is not an error: the result explains the compile failure and does
// not match, per the degrade-to-false contract for malformed expected input.
func MatchPattern(s, pattern string, opts PatternOptions) Result {
	re, err := compilePattern(pattern, opts)
	if err != nil {
		return failf("invalid pattern %q: %v", pattern, err)
	}
	if re.MatchString(s) {
		return ok()
	}
	return failf("%q does not match pattern %q", s, pattern)
}

// MatchAny reports whether s matches at least one of patterns (OR semantics).
func MatchAny(s string, patterns []string, opts PatternOptions) Result {
	if len(patterns) == 0 {
		return failf("no patterns given")
	}
	for _, p := range patterns {
		re, err := compilePattern(p, opts)
		if err != nil {
			return failf("invalid pattern %q: %v", p, err)
		}
		if re.MatchString(s) {
			return ok()
		}
	}
	return failf("%q matches none of %d patterns", s, len(patterns))
}

// MatchAll reports whether s matches every one of patterns (AND semantics).
func MatchAll(s string, patterns []string, opts PatternOptions) Result {
	if len(patterns) == 0 {
		return failf("no patterns given")
	}
	for _, p := range patterns {
		re, err := compilePattern(p, opts)
		if err != nil {
			return failf("invalid pattern %q: %v", p, err)
		}
		if !re.MatchString(s) {
			return failf("%q does not match pattern %q", s, p)
		}
	}
	return ok()
}

// HasPrefix reports whether s starts with prefix.
func HasPrefix(s, prefix string, ignoreCase bool) Result {
	a, b := s, prefix
	if ignoreCase {
		a, b = strings.ToLower(a), strings.ToLower(b)
	}
	if strings.HasPrefix(a, b) {
		return ok()
	}
	return failf("%q does not start with %q", s, prefix)
}

// HasSuffix reports whether s ends with suffix.
func HasSuffix(s, suffix string, ignoreCase bool) Result {
	a, b := s, suffix
	if ignoreCase {
		a, b = strings.ToLower(a), strings.ToLower(b)
	}
	if strings.HasSuffix(a, b) {
		return ok()
	}
	return failf("%q does not end with %q", s, suffix)
}

// ContainsSubstring reports whether s contains sub.
func ContainsSubstring(s, sub string, ignoreCase bool) Result {
	a, b := s, sub
	if ignoreCase {
		a, b = strings.ToLower(a), strings.ToLower(b)
	}
	if strings.Contains(a, b) {
		return ok()
	}
	return failf("%q does not contain %q", s, sub)
}

// compilePattern translates pattern + options into a compiled regexp.
func compilePattern(pattern string, opts PatternOptions) (*regexp.Regexp, error) {
	p := pattern
	if opts.Literal {
		p = regexp.QuoteMeta(p)
	}
	var flags string
	if opts.IgnoreCase {
		flags += "i"
	}
	if opts.Multiline {
		flags += "m"
	}
	if flags != "" {
		p = "(?" + flags + ")" + p
	}
	if opts.Fully {
		p = `\A(?:` + p + `)\z`
	}
	return regexp.Compile(p)
}
