package query

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/hrmstack/hrm-service/internal/entity"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageInfo is the continuation block attached to every keyset-paginated
// response.
type PageInfo struct {
	NextCursor *string `json:"nextCursor"`
	HasMore    bool    `json:"hasMore"`
}

// Page pairs a page of rows with its continuation info.
type Page[T any] struct {
	Data     []T      `json:"data"`
	PageInfo PageInfo `json:"pageInfo"`
}

// ParseLimit validates an optional page-size parameter. An empty value means
// DefaultLimit; anything outside 1..MaxLimit is a validation error.
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: limit must be a number", entity.ErrValidation)
	}
	if limit < 1 || limit > MaxLimit {
		return 0, fmt.Errorf("%w: limit must be between 1 and %d", entity.ErrValidation, MaxLimit)
	}
	return limit, nil
}

// ParseIDCursor parses an optional numeric row-id cursor.
func ParseIDCursor(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: cursor must be a number", entity.ErrValidation)
	}
	return &id, nil
}

// CutPage assembles a page from a limit+1 fetch: rows beyond limit are
// dropped, HasMore is set, and NextCursor is taken from the last surviving
// row. The key func must return the same value the query ordered and
// cursor-bounded by, unique per row, or paging can skip or repeat.
func CutPage[T any](rows []T, limit int, key func(T) string) Page[T] {
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	page := Page[T]{Data: rows, PageInfo: PageInfo{HasMore: hasMore}}
	if hasMore {
		cursor := key(rows[len(rows)-1])
		page.PageInfo.NextCursor = &cursor
	}
	return page
}

// IDKey formats a row id as a cursor value.
func IDKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// CompoundCursor is the opaque continuation token for listings ordered by a
// compound key. The row id is always the final component so the full sort
// key stays unique even when the leading columns tie.
type CompoundCursor struct {
	Department string    `json:"d"`
	CheckIn    time.Time `json:"c"`
	ID         int64     `json:"id"`
}

// Encode renders the cursor as an opaque URL-safe token.
func (c CompoundCursor) Encode() string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCompoundCursor parses a token produced by Encode. An empty value
// yields (nil, nil): no lower bound.
func DecodeCompoundCursor(raw string) (*CompoundCursor, error) {
	if raw == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed cursor", entity.ErrValidation)
	}
	var c CompoundCursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: malformed cursor", entity.ErrValidation)
	}
	return &c, nil
}
