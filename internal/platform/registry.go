package platform

import (
	"fmt"
	"net/http"

	"follow-digest/internal/domain/entity"
)

// Registry maps each supported platform to its fetcher. The mapping is
// closed: adding a platform means adding an entity.Platform constant, a
// Fetcher implementation, and one entry here. Call sites resolve through
// For and never switch on platform themselves.
type Registry struct {
	fetchers map[entity.Platform]Fetcher
}

// NewRegistry creates a registry with the default fetcher per platform,
// each wrapped with rate limiting and a circuit breaker.
// The HTTP client should be configured with appropriate timeouts.
func NewRegistry(client *http.Client) *Registry {
	return NewRegistryWith(map[entity.Platform]Fetcher{
		entity.PlatformMedium:    NewMediumFetcher(client),
		entity.PlatformX:         NewXFetcher(client),
		entity.PlatformInstagram: NewInstagramFetcher(client),
	})
}

// NewRegistryWith creates a registry from an explicit fetcher map, wrapping
// each fetcher with the resilience decorator. Used directly by tests to
// substitute fakes.
func NewRegistryWith(fetchers map[entity.Platform]Fetcher) *Registry {
	wrapped := make(map[entity.Platform]Fetcher, len(fetchers))
	for p, f := range fetchers {
		wrapped[p] = newResilientFetcher(f)
	}
	return &Registry{fetchers: wrapped}
}

// For resolves the fetcher for a platform.
// Unknown platforms return entity.ErrUnsupportedPlatform.
func (r *Registry) For(p entity.Platform) (Fetcher, error) {
	f, ok := r.fetchers[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrUnsupportedPlatform, p)
	}
	return f, nil
}
