package router

import (
	"net"
	"net/http"
	"strings"
)

// middlewareIP rewrites r.RemoteAddr to the client address reported by
// the proxy headers, so downstream handlers and logs see the real peer.
func middlewareIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if addr := clientIP(r); addr != "" {
			r.RemoteAddr = addr
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP picks the first proxy header that carries a valid address,
// falling back to the host part of r.RemoteAddr.
func clientIP(r *http.Request) string {
	candidate := r.Header.Get("True-Client-IP")
	if candidate == "" {
		candidate = r.Header.Get("X-Real-IP")
	}
	if candidate == "" {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			candidate, _, _ = strings.Cut(xff, ",")
		}
	}
	if candidate != "" && net.ParseIP(candidate) != nil {
		return candidate
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || net.ParseIP(host) == nil {
		return ""
	}
	return host
}
