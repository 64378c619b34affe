// Package news implements the query side of the article store: it turns a
// set of optional, loosely-typed filter parameters into a bounded, paginated
// result set with a total count.
package news

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// contentTypeFields lists the legacy field-name variants an exact contentType
// value is matched against. Upstream schema versions are inconsistent, so any
// one match satisfies the filter.
var contentTypeFields = []string{"type", "source_type", "contentType", "raw.type", "raw.source_type"}

// Query carries the raw filter parameters of one request. All fields are
// optional; empty strings impose no constraint.
type Query struct {
	StartDate   string
	EndDate     string
	Author      string
	Language    string
	Country     string
	Categories  string // comma-separated
	ContentType string
	Text        string // free-text substring over title and content
	Page        string
	Limit       string
	Sort        string // "asc" or "desc", default "desc"
}

// Result is one page of matching articles together with the total count of
// all matching records and the effective pagination values.
type Result struct {
	Data  []*entity.Article `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// Service answers normalized article queries against the store.
type Service struct {
	Repo repository.ArticleRepository
}

// Search normalizes q, evaluates it against the store and returns the
// requested page plus the total count computed with the same filter.
func (s *Service) Search(ctx context.Context, q Query) (*Result, error) {
	filter := BuildFilter(q)
	page, limit := NormalizePage(q)

	sort := repository.Sort{Field: "pubDate", Ascending: q.Sort == "asc"}
	window := repository.Page{Skip: (page - 1) * limit, Limit: limit}

	data, err := s.Repo.Find(ctx, filter, sort, window)
	if err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}
	total, err := s.Repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	if data == nil {
		data = []*entity.Article{}
	}
	return &Result{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// BuildFilter compiles the query parameters into a store-agnostic filter.
//
// All OR-style predicates (the contentType field variants plus the free-text
// match on title and content) accumulate into a single top-level OR group.
// When both contentType and the free-text query are present this makes them
// alternatives rather than a conjunction, mirroring the long-observed
// behavior of the endpoint.
func BuildFilter(q Query) repository.Filter {
	var f repository.Filter

	from := parseDate(q.StartDate)
	to := parseDate(q.EndDate)
	if from != nil || to != nil {
		f.Range("pubDate", from, to)
	}

	if q.Author != "" {
		f.Substr("creator", q.Author)
	}
	if q.Language != "" {
		f.Eq("language", q.Language)
	}
	if q.Country != "" {
		f.Eq("country", q.Country)
	}

	if cats := splitCategories(q.Categories); len(cats) > 0 {
		f.In("category", cats)
	}

	var group []repository.Clause
	if q.ContentType != "" {
		for _, field := range contentTypeFields {
			group = append(group, repository.EqClause(field, q.ContentType))
		}
	}
	if q.Text != "" {
		group = append(group,
			repository.SubstrClause("title", q.Text),
			repository.SubstrClause("content", q.Text))
	}
	if len(group) > 0 {
		f.Or(group...)
	}

	return f
}

// NormalizePage returns the effective page and limit: page defaults to 1 with
// a floor of 1, limit defaults to 20 and is clamped to 1..100.
func NormalizePage(q Query) (page, limit int) {
	page = defaultPage
	if n, err := strconv.Atoi(q.Page); err == nil {
		page = n
	}
	if page < 1 {
		page = 1
	}

	limit = defaultLimit
	if n, err := strconv.Atoi(q.Limit); err == nil {
		limit = n
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// splitCategories splits a comma-separated list, trimming whitespace and
// dropping empty tokens. An empty result imposes no constraint.
func splitCategories(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		slog.Default().Debug("ignoring unparseable date bound", slog.String("value", raw))
		return nil
	}
	return &t
}
