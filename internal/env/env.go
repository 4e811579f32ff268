package env

import (
	"os"
	"runtime"
	"strings"
)

// Helpers for manipulating "KEY=VALUE" environment lists before handing
// them to a child process. Keys compare case-insensitively on Windows.

// Set returns environ with key set to value, replacing any existing entry
func Set(environ []string, key, value string) []string {
	out := make([]string, 0, len(environ)+1)
	for _, kv := range environ {
		if k, _, ok := split(kv); ok && keyEqual(k, key) {
			continue
		}
		out = append(out, kv)
	}
	return append(out, key+"="+value)
}

// Unset returns environ with every entry for key removed
func Unset(environ []string, key string) []string {
	out := make([]string, 0, len(environ))
	for _, kv := range environ {
		if k, _, ok := split(kv); ok && keyEqual(k, key) {
			continue
		}
		out = append(out, kv)
	}
	return out
}

// Lookup returns the value of key in environ. Later entries win, matching
// what the OS does when duplicates slip in.
func Lookup(environ []string, key string) (string, bool) {
	value := ""
	found := false
	for _, kv := range environ {
		if k, v, ok := split(kv); ok && keyEqual(k, key) {
			value = v
			found = true
		}
	}
	return value, found
}

// PrependPath returns environ with dir prepended to the PATH entry.
// A missing PATH entry is created; an already-leading dir is left alone.
func PrependPath(environ []string, dir string) []string {
	current, ok := Lookup(environ, "PATH")
	if !ok || current == "" {
		return Set(environ, "PATH", dir)
	}

	sep := string(os.PathListSeparator)
	entries := strings.Split(current, sep)
	if len(entries) > 0 && pathEqual(entries[0], dir) {
		return environ
	}

	// Drop existing occurrences so the prepend actually wins
	kept := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == "" || pathEqual(e, dir) {
			continue
		}
		kept = append(kept, e)
	}

	return Set(environ, "PATH", strings.Join(append([]string{dir}, kept...), sep))
}

func split(kv string) (key, value string, ok bool) {
	i := strings.IndexByte(kv, '=')
	if i <= 0 {
		return "", "", false
	}
	return kv[:i], kv[i+1:], true
}

func keyEqual(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

func pathEqual(a, b string) bool {
	a = strings.TrimRight(a, `\/`)
	b = strings.TrimRight(b, `\/`)
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}
