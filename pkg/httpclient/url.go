package httpclient

import "strings"

// joinURL appends endpoint to base and collapses repeated slashes in the path.
// The scheme separator, query string and fragment are left untouched.
func joinURL(base, endpoint string) string {
	u := endpoint
	if base != "" {
		u = base + "/" + endpoint
	}

	var scheme string
	rest := u
	if i := strings.Index(u, "://"); i > 0 && !strings.ContainsAny(u[:i], "/?#") {
		scheme, rest = u[:i+3], u[i+3:]
	}

	path, tail := rest, ""
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		path, tail = rest[:i], rest[i:]
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	return scheme + path + tail
}
