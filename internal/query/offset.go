package query

import (
	"fmt"
	"strconv"

	"github.com/hrmstack/hrm-service/internal/entity"
)

// PageRef points at a neighbouring page in the offset-style listing
// responses.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// OffsetPage is the legacy page/pageSize response shape kept for the user
// listing endpoints.
type OffsetPage[T any] struct {
	Data        []T      `json:"data"`
	TotalItems  int64    `json:"totalItems"`
	PageSize    int      `json:"pageSize"`
	TotalPages  int      `json:"totalPages"`
	CurrentPage int      `json:"currentPage"`
	Next        *PageRef `json:"next"`
	Previous    *PageRef `json:"previous"`
}

// ParsePage validates an optional 1-based page number; empty means page 1.
func ParsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: page must be a positive number", entity.ErrValidation)
	}
	return page, nil
}

// BuildOffsetPage assembles the legacy response for a page fetched with
// LIMIT pageSize OFFSET (page-1)*pageSize against total matching rows.
func BuildOffsetPage[T any](data []T, total int64, page, pageSize int) OffsetPage[T] {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	out := OffsetPage[T]{
		Data:        data,
		TotalItems:  total,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		CurrentPage: page,
	}
	if int64(page)*int64(pageSize) < total {
		out.Next = &PageRef{Page: page + 1, Limit: pageSize}
	}
	if page > 1 {
		out.Previous = &PageRef{Page: page - 1, Limit: pageSize}
	}
	return out
}
