package fetcher

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bnema/renderfarm/internal/infrastructure/logger"
	"github.com/bnema/renderfarm/internal/port"
)

// Router sends social-platform URLs to the social fetcher and everything
// else to the direct one. A failed social fetch falls back to direct.
type Router struct {
	social port.Fetcher
	direct port.Fetcher
	hosts  []string
}

func NewRouter(social, direct port.Fetcher, hosts []string) *Router {
	normalized := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			normalized = append(normalized, h)
		}
	}
	return &Router{social: social, direct: direct, hosts: normalized}
}

func (r *Router) Fetch(ctx context.Context, rawURL, destDir string) (string, error) {
	if r.social == nil || !r.isSocial(rawURL) {
		return r.direct.Fetch(ctx, rawURL, destDir)
	}

	path, err := r.social.Fetch(ctx, rawURL, destDir)
	if err == nil {
		return path, nil
	}
	log.Warn().Err(err).Str("url", logger.SanitizeForLog(rawURL)).Msg("social fetch failed, trying direct download")
	return r.direct.Fetch(ctx, rawURL, destDir)
}

// isSocial matches the host and any of its subdomains.
func (r *Router) isSocial(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range r.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

var _ port.Fetcher = (*Router)(nil)
