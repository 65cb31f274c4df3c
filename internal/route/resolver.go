// Package route turns the in-app address into a page selection: the resolver
// parses the fragment into a Location, the guard matches it against the route
// table and applies the soft gate for protected pages.
package route

import (
	"net/url"
	"strings"
)

// Location is a parsed address fragment. Values are immutable once produced;
// navigation replaces the whole Location rather than mutating it.
type Location struct {
	Path  string
	Query map[string]string
}

// Resolver parses raw address fragments. The first resolution may redirect a
// "/login" address to "/" (a startup policy, see RedirectLoginOnStart); the
// one-shot flag is per-resolver state so independent instances never
// interfere.
type Resolver struct {
	// RedirectLoginOnStart makes the very first resolution rewrite a "/login"
	// address to "/". Later resolutions are never rewritten.
	RedirectLoginOnStart bool

	started bool
}

// Resolve parses one fragment. Empty input and "#/" both yield "/". The part
// before the first "?" is the path; the rest is parsed as key=value pairs
// with the last occurrence of a duplicate key winning.
func (r *Resolver) Resolve(raw string) Location {
	first := !r.started
	r.started = true

	raw = strings.TrimPrefix(raw, "#")
	if raw == "" {
		raw = "/"
	}

	path := raw
	queryPart := ""
	if i := strings.Index(raw, "?"); i >= 0 {
		path = raw[:i]
		queryPart = raw[i+1:]
	}
	if path == "" {
		path = "/"
	}

	if first && r.RedirectLoginOnStart && path == "/login" {
		return Location{Path: "/", Query: map[string]string{}}
	}
	return Location{Path: path, Query: parseQuery(queryPart)}
}

func parseQuery(s string) map[string]string {
	q := map[string]string{}
	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		if uk, err := url.QueryUnescape(k); err == nil {
			k = uk
		}
		if uv, err := url.QueryUnescape(v); err == nil {
			v = uv
		}
		if k == "" {
			continue
		}
		q[k] = v
	}
	return q
}
