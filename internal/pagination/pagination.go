// Package pagination windows fully materialized, caller-ordered result sets
// using opaque offset tokens.
package pagination

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

var errInvalidToken = errors.New("invalid page token")

// Page is one window of a list result.
type Page[T any] struct {
	Items         []T     `json:"items"`
	NextPageToken *string `json:"nextPageToken"`
}

// EncodeToken returns the opaque token for offset.
func EncodeToken(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// DecodeToken recovers the offset encoded by EncodeToken.
func DecodeToken(token string) (int, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, errInvalidToken
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0, errInvalidToken
	}
	return offset, nil
}

// Paginate returns at most limit items starting at the offset carried by
// pageToken. An empty or undecodable token starts at the beginning.
func Paginate[T any](items []T, limit int, pageToken string) Page[T] {
	if limit < 1 {
		limit = 1
	}
	offset := 0
	if pageToken != "" {
		if decoded, err := DecodeToken(pageToken); err == nil {
			offset = decoded
		}
	}

	page := Page[T]{Items: []T{}}
	if offset >= len(items) {
		return page
	}

	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	page.Items = append(page.Items, items[offset:end]...)
	if end < len(items) {
		next := EncodeToken(end)
		page.NextPageToken = &next
	}
	return page
}

// ListParams are the list query parameters after parsing.
type ListParams struct {
	Limit     int
	PageToken string
}

// ParseListParams reads limit and pageToken. A missing or non-numeric limit
// falls back to DefaultLimit; numeric values are clamped to [1, MaxLimit].
func ParseListParams(q url.Values) ListParams {
	return ListParams{
		Limit:     ParseLimit(q.Get("limit")),
		PageToken: q.Get("pageToken"),
	}
}

// ParseLimit applies the limit rules of ParseListParams to a raw value.
func ParseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultLimit
	}
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
