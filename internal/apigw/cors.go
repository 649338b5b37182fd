package apigw

import (
	"strings"
)

// AllowHeaders is returned on every response so browsers can send the Cognito token.
const AllowHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"

// CORS holds the origin allow-list. The first entry is used for requests that carry no
// Origin (server-to-server calls, the API Gateway console) and for rejected requests.
type CORS struct {
	AllowedOrigins []string
}

// Resolve picks the origin to echo back and reports whether the request may proceed.
// Requests made from the API Gateway test console identify themselves with an
// amazonaws.com user agent and are treated like origin-less calls.
func (c CORS) Resolve(req Request) (string, bool) {
	origin := req.Header("Origin")
	if origin == "" || strings.Contains(req.Header("User-Agent"), "amazonaws.com") {
		return c.fallback(), true
	}

	normalized := strings.TrimRight(origin, "/")
	for _, allowed := range c.AllowedOrigins {
		if strings.TrimRight(allowed, "/") == normalized {
			return normalized, true
		}
	}
	return c.fallback(), false
}

func (c CORS) fallback() string {
	if len(c.AllowedOrigins) == 0 {
		return ""
	}
	return strings.TrimRight(c.AllowedOrigins[0], "/")
}

func corsHeaders(origin, methods string) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  origin,
		"Access-Control-Allow-Headers": AllowHeaders,
		"Access-Control-Allow-Methods": methods,
		"Content-Type":                 "application/json",
	}
}
