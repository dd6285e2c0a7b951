package transport

import (
	"net/url"
	"strings"
)

// ResolveURI implements spec §4.6's resolve(base, ref): if ref has a
// non-empty raw path and base's raw path is absent or lacks a trailing "/",
// base is first adjusted to carry a trailing slash, then standard RFC 3986
// reference resolution (net/url.ResolveReference) is applied. Without the
// adjustment, a base like ".../repo/group/artifact" would resolve a
// relative "1.0/artifact.jar" against "repo/group/" (dropping "artifact"),
// which is never what a WebDAV-enumerated collection path means here.
func ResolveURI(base *url.URL, ref *url.URL) *url.URL {
	adjusted := *base
	if ref.Path != "" && !strings.HasSuffix(adjusted.Path, "/") {
		adjusted.Path += "/"
		if adjusted.RawPath != "" {
			adjusted.RawPath += "/"
		}
	}
	return adjusted.ResolveReference(ref)
}

// Directories implements spec §4.6's directories(base, uri): enumerates
// every ancestor directory of uri by repeatedly resolving ".." against it,
// stopping once the result is empty, "/", equal to base, or no longer
// strictly under base. Used to drive WebDAV MKCOL, which must create
// ancestor collections before the leaf one.
func Directories(base *url.URL, uri *url.URL) []*url.URL {
	var dirs []*url.URL

	current := parentOf(uri)
	for current != nil && isStrictlyUnder(base, current) {
		dirs = append(dirs, current)
		current = parentOf(current)
	}
	return dirs
}

// parentOf resolves ".." against u, returning nil once the result's path
// collapses to empty or "/".
func parentOf(u *url.URL) *url.URL {
	dotdot, err := url.Parse("..")
	if err != nil {
		return nil
	}
	parent := ResolveURI(u, dotdot)
	if !strings.HasSuffix(parent.Path, "/") {
		parent.Path += "/"
	}
	if parent.Path == "" || parent.Path == "/" {
		return nil
	}
	if parent.Path == u.Path {
		return nil
	}
	return parent
}

// isStrictlyUnder reports whether candidate's path is base's path or a
// descendant of it, and not equal to it (an ancestor enumeration must stop
// at, not include, base itself).
func isStrictlyUnder(base, candidate *url.URL) bool {
	if candidate.Host != base.Host || candidate.Scheme != base.Scheme {
		return false
	}
	basePath := base.Path
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	if candidate.Path == basePath {
		return false
	}
	return strings.HasPrefix(candidate.Path, basePath)
}
