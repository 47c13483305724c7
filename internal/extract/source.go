package extract

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"msuhthegreat/pricefinder/helpers"
	"msuhthegreat/pricefinder/logger"
	"msuhthegreat/pricefinder/services/cache"
)

// HTTPSource fetches rendered search-result pages over plain HTTP, one
// request per result page. A cache service remembers rate-limited search
// terms so the worker backs off instead of hammering the site.
type HTTPSource struct {
	searchURL string
	maxPages  int
	cacheSvc  cache.CacheService
	blockTime time.Duration
}

// NewHTTPSource creates a page source for the given search endpoint.
// cacheSvc may be nil to disable rate-limit tracking.
func NewHTTPSource(searchURL string, maxPages int, cacheSvc cache.CacheService, blockTime time.Duration) *HTTPSource {
	if maxPages < 1 {
		maxPages = 1
	}
	return &HTTPSource{
		searchURL: searchURL,
		maxPages:  maxPages,
		cacheSvc:  cacheSvc,
		blockTime: blockTime,
	}
}

// SearchPages fetches up to maxPages result pages for the term. The first
// page is mandatory; later pages ending early (no more results, transient
// errors) just stop pagination, matching how result paging fizzles out.
func (h *HTTPSource) SearchPages(ctx context.Context, term string) ([]io.Reader, error) {
	cacheKey := h.rateLimitKey(term)

	// Check if the term is rate limited before touching the site.
	if h.cacheSvc != nil {
		if _, err := h.cacheSvc.Get(cacheKey); err == nil {
			return nil, fmt.Errorf("%s: blocked for %d seconds after rate limiting", cacheKey, h.blockTime/time.Second)
		}
	}

	var pages []io.Reader
	for page := 1; page <= h.maxPages; page++ {
		body, err := helpers.FetchWithRandomHeaders(ctx, h.pageURL(term, page))
		if err != nil {
			if strings.HasPrefix(err.Error(), "rate limited") && h.cacheSvc != nil {
				h.cacheSvc.Set(cacheKey, []byte(strconv.Itoa(int(h.blockTime/time.Second))), h.blockTime)
			}
			if page == 1 {
				return nil, err
			}
			logger.ForExtractor(term).Warn().Err(err).Int("page", page).Msg("Stopping pagination")
			break
		}
		pages = append(pages, body)
	}

	return pages, nil
}

func (h *HTTPSource) pageURL(term string, page int) string {
	values := url.Values{}
	values.Set("k", term)
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	return h.searchURL + "?" + values.Encode()
}

func (h *HTTPSource) rateLimitKey(term string) string {
	return "search_rate_limited:" + helpers.SearchTag(term)
}
