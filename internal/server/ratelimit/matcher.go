package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited marks routes that bypass rate limiting entirely
var unlimited = map[string]string{
	"/health": http.MethodGet,
}

// MatchEndpoint finds the configuration for a request path and method.
// Exact paths win over prefixes; a config path ending in "/" matches every
// path below it. Returns nil when nothing matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if m, ok := unlimited[path]; ok && m == method {
		return &EndpointConfig{Path: path, Method: method}
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
