// Package testkit provides testing helpers
package testkit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var seamMu sync.Mutex

// MustPanic asserts that fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	if r := recovered(fn); r == nil {
		t.Fatalf("expected panic, got none")
	}
}

// MustPanicWith asserts that fn panics with a message containing want
func MustPanicWith(t *testing.T, fn func(), want string) {
	t.Helper()
	r := recovered(fn)
	if r == nil {
		t.Fatalf("expected panic containing %q, got none", want)
	}
	if msg := fmt.Sprint(r); !strings.Contains(msg, want) {
		t.Fatalf("panic %q does not contain %q", msg, want)
	}
}

// MustNotPanic asserts that fn returns normally
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	if r := recovered(fn); r != nil {
		t.Fatalf("unexpected panic: %v", r)
	}
}

// MustContain asserts that haystack contains needle
// a miss dumps haystack to a temp file, log and JSON bodies get long
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n\nfull output written to %s", needle, dump(t, haystack))
	}
}

// MustNotContain asserts that haystack does not contain needle
func MustNotContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("expected output without %q\n\nfull output written to %s", needle, dump(t, haystack))
	}
}

// Ptr returns a pointer to v, handy for optional input fields
func Ptr[T any](v T) *T { return &v }

// Swap replaces a package level seam for the duration of the test
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial runs the rest of the test under a global lock
// tests that Swap or touch process env must call it first
func Serial(t *testing.T) {
	t.Helper()
	seamMu.Lock()
	t.Cleanup(seamMu.Unlock)
}

func recovered(fn func()) (r any) {
	defer func() { r = recover() }()
	fn()
	return nil
}

func dump(t *testing.T, s string) string {
	p := filepath.Join(t.TempDir(), "output.txt")
	_ = os.WriteFile(p, []byte(s), 0o600)
	return p
}
