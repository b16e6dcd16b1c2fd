package service

import (
	"context"

	"taxipark/pkg/forms"
	"taxipark/pkg/models"
)

// ListResult is one page of a searchable list view.
type ListResult[T any] struct {
	Items []T
	Page  models.Page
	Query string
}

// paginate fetches search.Page; a page past the end is clamped to the last one.
func paginate[T any](ctx context.Context, fetch func(context.Context, models.ListRequest) ([]T, int, error), search forms.Search, size int) (*ListResult[T], error) {
	if size <= 0 {
		size = 1
	}
	req := models.ListRequest{Search: search.Query, Limit: size, Offset: (search.Page - 1) * size}
	items, total, err := fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	page := models.NewPage(search.Page, size, total)
	if page.Offset() != req.Offset {
		req.Offset = page.Offset()
		items, total, err = fetch(ctx, req)
		if err != nil {
			return nil, err
		}
		page = models.NewPage(page.Number, size, total)
	}

	return &ListResult[T]{Items: items, Page: page, Query: search.Query}, nil
}
