// Package cookiejar parses raw Cookie headers into a map.
//
// The parser is total: a missing, empty or malformed header yields an empty
// map, never a panic. When the same name appears twice the last occurrence
// wins.
package cookiejar

import (
	"net/http"
	"strings"
)

// Parse splits a semicolon-delimited "k=v; k2=v2" Cookie header.
// Segments without an '=' are skipped. Names and values are trimmed.
func Parse(rawHeader string) map[string]string {
	cookies := make(map[string]string)
	if strings.TrimSpace(rawHeader) == "" {
		return cookies
	}

	for _, part := range strings.Split(rawHeader, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		cookies[k] = strings.TrimSpace(v)
	}

	return cookies
}

// Token extracts the session token from the request's Cookie header.
// Returns "" when the header or the named cookie is absent.
func Token(r *http.Request, cookieName string) string {
	return Parse(r.Header.Get("Cookie"))[cookieName]
}
