package http

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// APIKeyValidator is satisfied by service.APIKeyAuth.
type APIKeyValidator interface {
	Enabled() bool
	Validate(key string) error
}

// requireAPIKey accepts "Authorization: Bearer <key>" or "X-API-Key: <key>".
// Repeated failures from one client are throttled.
func (s *Server) requireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.Enabled() {
			next(w, r)
			return
		}

		client := clientIP(r, s.behindProxy)
		if blocked, remaining := s.rateLimiter.Blocked(client); blocked {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(remaining.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "too many failed attempts")
			return
		}

		key := apiKeyFromRequest(r)
		if err := s.auth.Validate(key); err != nil || key == "" {
			if block := s.rateLimiter.Fail(client); block > 0 {
				log.Warn().Str("client", client).Dur("blocked_for", block).Msg("api key failures, client blocked")
			}
			w.Header().Set("WWW-Authenticate", `Bearer realm="renderfarm"`)
			writeError(w, http.StatusUnauthorized, "invalid or missing api key")
			return
		}

		s.rateLimiter.Reset(client)
		next(w, r)
	}
}

func apiKeyFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

// clientIP uses the first X-Forwarded-For hop only behind a trusted proxy.
func clientIP(r *http.Request, behindProxy bool) string {
	if behindProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
