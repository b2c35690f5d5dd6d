package functions

import (
	"context"
	"errors"
	"fmt"

	"github.com/cervezafortuna/cicerone/catalog"
)

// RegisterCatalogTools wires the web fetching and catalog cache tools
// against the catalog service.
func RegisterCatalogTools(r *Registry, svc *catalog.Service) {
	r.Register(Tool{
		Declaration: fetchPageDecl,
		Handler: func(ctx context.Context, args map[string]any) map[string]any {
			return fetchPage(ctx, svc, args)
		},
	})
	r.Register(Tool{
		Declaration: getCachedCatalogDecl,
		Handler: func(ctx context.Context, args map[string]any) map[string]any {
			return getCachedCatalog(svc)
		},
	})
	r.Register(Tool{
		Declaration: saveCatalogCacheDecl,
		Handler: func(ctx context.Context, args map[string]any) map[string]any {
			return saveCatalogCache(ctx, svc)
		},
	})
}

var fetchPageDecl = stringParamDecl(
	"fetch_page",
	"Fetch a page from cervezafortuna.com and return its HTML content. Only pages on the cervezafortuna.com domain are allowed. Relative paths like /inicio/cervezas/ are resolved against the domain.",
	"url",
	"Absolute URL on cervezafortuna.com, or a path starting with /",
)

var getCachedCatalogDecl = noParamDecl(
	"get_cached_catalog",
	"Return the locally cached beer catalog. Use this as a fallback when the website is unreachable, or to avoid refetching recently seen data.",
)

var saveCatalogCacheDecl = noParamDecl(
	"save_catalog_cache",
	"Fetch the beer catalog page, parse the beer list and store it in the local cache. Returns the number of beers saved.",
)

func fetchPage(ctx context.Context, svc *catalog.Service, args map[string]any) map[string]any {
	rawURL := stringArg(args, "url")
	if rawURL == "" {
		return map[string]any{"success": false, "error": "url is required"}
	}
	page, err := svc.Fetcher().Fetch(ctx, rawURL)
	if err != nil {
		if errors.Is(err, catalog.ErrDomainNotAllowed) {
			return map[string]any{
				"success": false,
				"error":   fmt.Sprintf("domain not allowed: only %s can be fetched", catalog.AllowedDomain),
			}
		}
		return errorResult(err)
	}
	return map[string]any{
		"success":     true,
		"url":         page.URL,
		"status_code": page.StatusCode,
		"content":     page.HTML,
	}
}

func getCachedCatalog(svc *catalog.Service) map[string]any {
	cache := svc.Cache()
	beers, err := cache.Load()
	if err != nil {
		if errors.Is(err, catalog.ErrCacheMiss) {
			return map[string]any{"success": false, "error": "no cached catalog available"}
		}
		return errorResult(err)
	}
	result := map[string]any{
		"success":    true,
		"beers":      beersAsMaps(beers),
		"beer_count": len(beers),
		"stale":      !cache.Valid(),
	}
	if age, err := cache.Age(); err == nil {
		result["age_hours"] = age.Hours()
	}
	return result
}

func saveCatalogCache(ctx context.Context, svc *catalog.Service) map[string]any {
	beers, err := svc.Catalog(ctx, true)
	if err != nil {
		return errorResult(err)
	}
	return map[string]any{
		"success":    true,
		"beer_count": len(beers),
		"beers":      beersAsMaps(beers),
	}
}

// beersAsMaps converts beers into plain maps so the result embeds
// cleanly in a function response without another marshal round.
func beersAsMaps(beers []catalog.Beer) []map[string]any {
	out := make([]map[string]any, 0, len(beers))
	for _, b := range beers {
		m := map[string]any{
			"id":          b.ID,
			"name":        b.Name,
			"style":       b.Style,
			"abv":         b.ABV,
			"description": b.Description,
		}
		if b.IBU != nil {
			m["ibu"] = *b.IBU
		}
		if b.ImageURL != "" {
			m["image_url"] = b.ImageURL
		}
		out = append(out, m)
	}
	return out
}
