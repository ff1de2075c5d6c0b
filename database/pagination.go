package database

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest is a 1-based page number and a page size.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest replaces non-positive values with the defaults and caps the
// page size at MaxLimit.
func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return PageRequest{Page: page, Limit: min(limit, MaxLimit)}
}

// offset saturates instead of overflowing for very large page numbers.
func (p PageRequest) offset() int {
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Page is one slice of a filtered, ordered listing.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// TotalPages is ceil(Total / Limit).
func (p Page[T]) TotalPages() int {
	if p.Limit < 1 {
		return 0
	}
	return int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
}

// paginate counts the filtered rows and fetches the requested page in parallel.
// query must already carry its Model and filters.
func paginate[T any](ctx context.Context, query *gorm.DB, req PageRequest, order ...string) (Page[T], error) {
	req = NewPageRequest(req.Page, req.Limit)
	result := Page[T]{Items: make([]T, 0), Page: req.Page, Limit: req.Limit}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return query.Session(&gorm.Session{}).WithContext(gctx).Count(&result.Total).Error
	})

	var items []T
	g.Go(func() error {
		q := query.Session(&gorm.Session{}).WithContext(gctx)
		for _, o := range order {
			q = q.Order(o)
		}
		return q.Offset(req.offset()).Limit(req.Limit).Find(&items).Error
	})

	if err := g.Wait(); err != nil {
		return result, err
	}
	if items != nil {
		result.Items = items
	}
	return result, nil
}
