package httpserver

import (
	"net/http"
	"strings"

	"github.com/fdg312/fuel-score/internal/config"
)

const (
	corsAllowMethods  = "GET,POST,PUT,PATCH,DELETE,OPTIONS"
	corsAllowHeaders  = "Authorization,Content-Type"
	corsExposeHeaders = "Content-Disposition,Retry-After"
	corsMaxAge        = "600"
)

// corsPolicy — разрешённые origins из CORS_ALLOWED_ORIGINS
type corsPolicy struct {
	origins     map[string]bool
	credentials bool
}

func newCORSPolicy(cfg *config.Config) corsPolicy {
	p := corsPolicy{
		origins:     make(map[string]bool, len(cfg.CORSAllowedOrigins)),
		credentials: cfg.CORSAllowCredentials,
	}
	for _, o := range cfg.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			p.origins[o] = true
		}
	}
	return p
}

func (p corsPolicy) allows(origin string) bool {
	return origin != "" && p.origins[origin]
}

func (p corsPolicy) setHeaders(h http.Header, origin string) {
	h.Set("Access-Control-Allow-Origin", origin)
	h.Add("Vary", "Origin")
	h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
	if p.credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}

// CORSMiddleware добавляет CORS заголовки и отвечает на preflight
func CORSMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	policy := newCORSPolicy(cfg)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowed := policy.allows(origin)
		if allowed {
			policy.setHeaders(w.Header(), origin)
		}

		if r.Method == http.MethodOptions && origin != "" {
			// чужой origin получает 204 без заголовков, браузер заблокирует сам
			if allowed {
				w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
				w.Header().Set("Access-Control-Max-Age", corsMaxAge)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
