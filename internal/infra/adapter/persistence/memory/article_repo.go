// Package memory provides in-memory implementations of the repository
// interfaces. It is selected at startup when no document-store connection is
// configured, keeping local development and the query side functional
// without external services. Matching semantics mirror the MongoDB adapter.
package memory

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

type ArticleRepo struct {
	mu       sync.RWMutex
	articles map[string]*entity.Article
}

func NewArticleRepo() *ArticleRepo {
	return &ArticleRepo{articles: make(map[string]*entity.Article)}
}

// EnsureIndexes is a no-op: the backing map is keyed by articleId, so
// uniqueness holds by construction.
func (r *ArticleRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

// BulkUpsert replaces or inserts each article under its articleId. Every
// operation is independent, matching the unordered semantics of the document
// store: no single record can block the rest of the batch.
func (r *ArticleRepo) BulkUpsert(ctx context.Context, articles []*entity.Article) (repository.BulkResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res repository.BulkResult
	for _, a := range articles {
		if _, exists := r.articles[a.ArticleID]; exists {
			res.Modified++
		} else {
			res.Inserted++
		}
		r.articles[a.ArticleID] = a
	}
	return res, nil
}

func (r *ArticleRepo) Find(ctx context.Context, f repository.Filter, s repository.Sort, page repository.Page) ([]*entity.Article, error) {
	matched, err := r.matching(f)
	if err != nil {
		return nil, fmt.Errorf("Find: %w", err)
	}

	sortArticles(matched, s)

	if page.Skip >= len(matched) {
		return []*entity.Article{}, nil
	}
	matched = matched[page.Skip:]
	if page.Limit > 0 && page.Limit < len(matched) {
		matched = matched[:page.Limit]
	}
	return matched, nil
}

func (r *ArticleRepo) Count(ctx context.Context, f repository.Filter) (int64, error) {
	matched, err := r.matching(f)
	if err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return int64(len(matched)), nil
}

func (r *ArticleRepo) CountAll(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.articles)), nil
}

func (r *ArticleRepo) CategoryCounts(ctx context.Context) ([]repository.CategoryCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	var uncategorized int64
	for _, a := range r.articles {
		if a.Category == nil {
			uncategorized++
			continue
		}
		counts[*a.Category]++
	}

	out := make([]repository.CategoryCount, 0, len(counts)+1)
	for cat, n := range counts {
		c := cat
		out = append(out, repository.CategoryCount{Category: &c, Count: n})
	}
	if uncategorized > 0 {
		out = append(out, repository.CategoryCount{Count: uncategorized})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (r *ArticleRepo) matching(f repository.Filter) ([]*entity.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Article, 0, len(r.articles))
	for _, a := range r.articles {
		ok, err := matches(a, f.Clauses)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func matches(a *entity.Article, clauses []repository.Clause) (bool, error) {
	for _, c := range clauses {
		ok, err := matchClause(a, c)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matchClause(a *entity.Article, c repository.Clause) (bool, error) {
	switch c.Kind {
	case repository.ClauseRange:
		return matchRange(a, c), nil
	case repository.ClauseEq:
		v, ok := fieldValue(a, c.Field)
		return ok && v == c.Value, nil
	case repository.ClauseIn:
		v, ok := fieldValue(a, c.Field)
		if !ok {
			return false, nil
		}
		for _, want := range c.Values {
			if v == want {
				return true, nil
			}
		}
		return false, nil
	case repository.ClauseSubstr:
		re, err := regexp.Compile("(?i)" + c.Value)
		if err != nil {
			return false, fmt.Errorf("compile pattern %q: %w", c.Value, err)
		}
		v, _ := fieldValue(a, c.Field)
		return re.MatchString(v), nil
	case repository.ClauseOr:
		for _, m := range c.Any {
			ok, err := matchClause(a, m)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unknown clause kind %q", c.Kind)
	}
}

func matchRange(a *entity.Article, c repository.Clause) bool {
	if c.Field != "pubDate" {
		return false
	}
	if a.PubDate == nil {
		return c.From == nil && c.To == nil
	}
	if c.From != nil && a.PubDate.Before(*c.From) {
		return false
	}
	if c.To != nil && a.PubDate.After(*c.To) {
		return false
	}
	return true
}

// fieldValue resolves a filter field against the article. Modeled fields map
// to their struct values; "raw."-prefixed fields look inside the retained
// upstream record, which is where the legacy contentType variants live.
// Unknown fields resolve to missing, matching the document store where those
// keys simply do not exist.
func fieldValue(a *entity.Article, field string) (string, bool) {
	deref := func(s *string) (string, bool) {
		if s == nil {
			return "", false
		}
		return *s, true
	}

	switch field {
	case "articleId":
		return a.ArticleID, true
	case "title":
		return deref(a.Title)
	case "link":
		return deref(a.Link)
	case "content":
		return deref(a.Content)
	case "language":
		return deref(a.Language)
	case "country":
		return deref(a.Country)
	case "category":
		return deref(a.Category)
	case "creator":
		return deref(a.Creator)
	case "source_id":
		return deref(a.SourceID)
	}

	if rest, ok := strings.CutPrefix(field, "raw."); ok && a.Raw != nil {
		if v, ok := a.Raw[rest].(string); ok {
			return v, true
		}
	}
	return "", false
}

func sortArticles(articles []*entity.Article, s repository.Sort) {
	at := func(a *entity.Article) time.Time {
		if a.PubDate == nil {
			return time.Time{}
		}
		return *a.PubDate
	}
	sort.SliceStable(articles, func(i, j int) bool {
		if s.Ascending {
			return at(articles[i]).Before(at(articles[j]))
		}
		return at(articles[i]).After(at(articles[j]))
	})
}
