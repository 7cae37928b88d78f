package http

import (
	"net"
	"net/http"
	"strings"
)

const (
	headerRequestID   = "x-request-id"
	headerWriteKey    = "x-write-key"
	headerOrigin      = "origin"
	headerUserAgent   = "user-agent"
	headerForwardedIP = "x-forwarded-for"
)

func requestID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerRequestID))
}

func setRequestID(r *http.Request, requestID string) {
	r.Header.Set(headerRequestID, requestID)
}

// writeKey extracts the project write key: X-Write-Key first, then the
// username of HTTP basic auth (analytics libraries commonly send the write
// key as the basic auth user with an empty password).
func writeKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get(headerWriteKey)); key != "" {
		return key
	}
	if user, _, ok := r.BasicAuth(); ok {
		return strings.TrimSpace(user)
	}
	return ""
}

func origin(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerOrigin))
}

func userAgent(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerUserAgent))
}

// clientIP returns the nearest client address: the first entry of
// X-Forwarded-For when present, else the connection's remote address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get(headerForwardedIP); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
