package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// ErrCatalogUnavailable is the terminal error when neither a fresh fetch
// nor the cache can produce a catalog.
var ErrCatalogUnavailable = errors.New("failed to fetch beer catalog and no cache available")

// Service ties the fetcher and cache together: fresh data when the site
// answers, cached data when it doesn't.
type Service struct {
	fetcher    *Fetcher
	cache      *Cache
	catalogURL string
}

// NewService builds a catalog service around the given fetcher and cache.
func NewService(fetcher *Fetcher, cache *Cache, catalogURL string) *Service {
	return &Service{
		fetcher:    fetcher,
		cache:      cache,
		catalogURL: catalogURL,
	}
}

// Fetcher exposes the underlying fetcher for page-level tool calls.
func (s *Service) Fetcher() *Fetcher {
	return s.fetcher
}

// Cache exposes the underlying cache for tool calls.
func (s *Service) Cache() *Cache {
	return s.cache
}

// Catalog returns the beer catalog. A valid cache short-circuits the
// network unless forceRefresh is set. Fetch or parse failures fall back
// to the cache even when stale; if that also fails the error wraps
// ErrCatalogUnavailable.
func (s *Service) Catalog(ctx context.Context, forceRefresh bool) ([]Beer, error) {
	if !forceRefresh && s.cache.Valid() {
		if beers, err := s.cache.Load(); err == nil && len(beers) > 0 {
			log.Printf("🍺 Using cached beer catalog (%d beers)", len(beers))
			return beers, nil
		}
	}

	log.Printf("🍺 Fetching fresh beer catalog from %s", s.catalogURL)
	page, err := s.fetcher.Fetch(ctx, s.catalogURL)
	if err == nil {
		beers := ParseCatalog(page.HTML, page.URL)
		if len(beers) > 0 {
			if saveErr := s.cache.Save(beers); saveErr != nil {
				log.Printf("⚠️ Failed to save catalog cache: %v", saveErr)
			}
			return beers, nil
		}
		log.Println("⚠️ Parsed 0 beers from website")
	} else {
		log.Printf("⚠️ Catalog fetch failed: %v", err)
	}

	// Fall back to the cache even if it is past its TTL.
	beers, cacheErr := s.cache.Load()
	if cacheErr == nil && len(beers) > 0 {
		log.Printf("🍺 Using stale cache as fallback (%d beers)", len(beers))
		return beers, nil
	}

	if err == nil {
		err = fmt.Errorf("no beers parsed from catalog page")
	}
	return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
}
