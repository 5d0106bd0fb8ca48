package middleware

import (
	"net/http"
	"strings"

	"storefront-backend/config"
)

// The storefront runs on a separate origin and sends the session cookie with
// every request, so the matched origin is echoed back rather than "*".
const (
	corsAllowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders  = "Content-Type, X-Request-ID"
	corsExposeHeaders = "X-Request-ID, Retry-After"
	corsMaxAge        = "600"
)

type originSet struct {
	any     bool
	origins map[string]bool
}

func parseOrigins(raw string) originSet {
	set := originSet{origins: make(map[string]bool)}
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			set.any = true
		default:
			set.origins[o] = true
		}
	}
	return set
}

func (s originSet) allows(origin string) bool {
	return origin != "" && (s.any || s.origins[origin])
}

// NewCORSMiddleware answers preflight requests and tags responses for the
// origins listed in ALLOWED_ORIGIN.
func NewCORSMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	allowed := parseOrigins(cfg.AllowedOrigin)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Origin")

			if origin := r.Header.Get("Origin"); allowed.allows(origin) {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Max-Age", corsMaxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
