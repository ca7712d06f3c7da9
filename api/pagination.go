package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rpupo63/jhipster-sample-services/models"
	"golang.org/x/sync/errgroup"
)

// parsePageable reads page, size and repeated sort parameters. Malformed
// page or size values fall back to their defaults; pages past MaxPage are
// clamped to it.
func parsePageable(r *http.Request) models.Pageable {
	query := r.URL.Query()
	pageable := models.Pageable{Page: 0, Size: models.DefaultPageSize}

	if page, err := strconv.Atoi(query.Get("page")); err == nil && page > 0 {
		pageable.Page = min(page, models.MaxPage)
	}
	if size, err := strconv.Atoi(query.Get("size")); err == nil && size > 0 {
		pageable.Size = min(size, models.MaxPageSize)
	}

	for _, param := range query["sort"] {
		pageable.Sort = append(pageable.Sort, parseSort(param)...)
	}
	return pageable
}

// parseSort handles "prop", "prop,desc" and "a,b,asc". A trailing direction
// applies to every property before it.
func parseSort(param string) []models.SortOrder {
	parts := strings.Split(param, ",")
	descending := false
	switch strings.ToLower(strings.TrimSpace(parts[len(parts)-1])) {
	case "desc":
		descending = true
		parts = parts[:len(parts)-1]
	case "asc":
		parts = parts[:len(parts)-1]
	}

	orders := make([]models.SortOrder, 0, len(parts))
	for _, part := range parts {
		if property := strings.TrimSpace(part); property != "" {
			orders = append(orders, models.SortOrder{Property: property, Descending: descending})
		}
	}
	return orders
}

// fetchPage loads the count and the page content concurrently.
func fetchPage[T any](
	ctx context.Context,
	pageable models.Pageable,
	count func(context.Context) (int64, error),
	find func(context.Context, models.Pageable) ([]T, error),
) (models.Page[T], error) {
	page := models.Page[T]{Pageable: pageable}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := count(ctx)
		page.Total = total
		return err
	})
	g.Go(func() error {
		content, err := find(ctx, pageable)
		page.Content = content
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Page[T]{}, err
	}
	if page.Content == nil {
		page.Content = []T{}
	}
	return page, nil
}

// writePaginationHeaders sets X-Total-Count and the RFC 5988 Link header,
// built from the current request URL.
func writePaginationHeaders[T any](w http.ResponseWriter, r *http.Request, page models.Page[T]) {
	w.Header().Set("X-Total-Count", strconv.FormatInt(page.Total, 10))

	base := requestURL(r)
	size := page.Pageable.Size
	links := make([]string, 0, 4)
	if page.HasNext() {
		links = append(links, pageLink(base, page.Pageable.Page+1, size, "next"))
	}
	if page.HasPrevious() {
		links = append(links, pageLink(base, page.Pageable.Page-1, size, "prev"))
	}
	links = append(links,
		pageLink(base, page.TotalPages()-1, size, "last"),
		pageLink(base, 0, size, "first"),
	)
	w.Header().Set("Link", strings.Join(links, ","))
}

func pageLink(base url.URL, page, size int, rel string) string {
	query := base.Query()
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	base.RawQuery = query.Encode()
	return fmt.Sprintf("<%s>; rel=\"%s\"", base.String(), rel)
}

func requestURL(r *http.Request) url.URL {
	u := *r.URL
	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		u.Scheme = proto
	}
	if host := r.Header.Get("X-Forwarded-Host"); host != "" {
		u.Host = host
	}
	return u
}
