package app

import (
	"net/url"
	"strings"

	"github.com/gin-contrib/cors"

	"github.com/faqbase/core/internal/config"
)

// buildCORSConfig allows everything in development; in production only the
// configured origins (which may carry "*." and ":*" wildcards) are accepted.
func buildCORSConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-idempotence"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}

	if cfg.IsDev() || len(cfg.AllowedOrigins) == 0 {
		c.AllowOriginFunc = func(origin string) bool { return true }
		return c
	}

	patterns := cfg.AllowedOrigins
	c.AllowOriginFunc = func(origin string) bool {
		host := extractOriginHost(origin)
		for _, pattern := range patterns {
			if matchOriginPattern(strings.TrimSpace(pattern), host) {
				return true
			}
		}
		return false
	}
	return c
}

// extractOriginHost returns the "host[:port]" portion of an origin URL.
func extractOriginHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// matchOriginPattern reports whether host matches the given wildcard pattern.
func matchOriginPattern(pattern, host string) bool {
	if pattern == host {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		suffix := pattern[1:]
		return strings.HasSuffix(host, suffix)
	}
	if strings.HasSuffix(pattern, ":*") {
		prefix := pattern[:len(pattern)-1]
		return strings.HasPrefix(host, prefix)
	}
	return false
}
