// Package strings holds small string and slice helpers shared by modules
package strings

import std "strings"

// IfEmpty returns def when in has no elements
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString panics with "<name> is required" when s is blank
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix turns " catalog/ " into "/catalog", a bare root panics
func MustPrefix(s string) string {
	s = "/" + std.Trim(s, " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// Blank reports whether ps is nil or only whitespace
func Blank(ps *string) bool {
	return ps == nil || std.TrimSpace(*ps) == ""
}

// TrimPtr trims the pointed string, blank input collapses to nil
func TrimPtr(ps *string) *string {
	if Blank(ps) {
		return nil
	}
	s := std.TrimSpace(*ps)
	return &s
}
