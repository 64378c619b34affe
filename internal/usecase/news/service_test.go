package news

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/domain/entity"
	"newshub/internal/infra/adapter/persistence/memory"
	"newshub/internal/repository"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", page: "", limit: "", wantPage: 1, wantLimit: 20},
		{name: "explicit values", page: "3", limit: "50", wantPage: 3, wantLimit: 50},
		{name: "page zero floors to one", page: "0", limit: "", wantPage: 1, wantLimit: 20},
		{name: "negative page floors to one", page: "-5", limit: "", wantPage: 1, wantLimit: 20},
		{name: "unparseable page defaults", page: "abc", limit: "", wantPage: 1, wantLimit: 20},
		{name: "limit above cap clamps to 100", page: "", limit: "500", wantPage: 1, wantLimit: 100},
		{name: "limit at cap passes", page: "", limit: "100", wantPage: 1, wantLimit: 100},
		{name: "zero limit defaults", page: "", limit: "0", wantPage: 1, wantLimit: 20},
		{name: "negative limit defaults", page: "", limit: "-1", wantPage: 1, wantLimit: 20},
		{name: "unparseable limit defaults", page: "", limit: "lots", wantPage: 1, wantLimit: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := NormalizePage(Query{Page: tt.page, Limit: tt.limit})
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestBuildFilter_EmptyQuery(t *testing.T) {
	f := BuildFilter(Query{})
	assert.Empty(t, f.Clauses, "empty query must match everything")
}

func TestBuildFilter_SingleORGroup(t *testing.T) {
	// contentType expands to its field variants and q adds title/content
	// substring clauses; all of them must land in one top-level OR group.
	f := BuildFilter(Query{ContentType: "video", Text: "election"})

	var orGroups []repository.Clause
	for _, c := range f.Clauses {
		if c.Kind == repository.ClauseOr {
			orGroups = append(orGroups, c)
		}
	}
	require.Len(t, orGroups, 1, "contentType and q must share one OR group")
	assert.Len(t, orGroups[0].Any, len(contentTypeFields)+2)
}

func TestBuildFilter_DateBounds(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantRange  bool
		wantFrom   bool
		wantTo     bool
	}{
		{name: "both bounds", start: "2026-01-01", end: "2026-02-01", wantRange: true, wantFrom: true, wantTo: true},
		{name: "start only", start: "2026-01-01", wantRange: true, wantFrom: true},
		{name: "end only", end: "2026-02-01", wantRange: true, wantTo: true},
		{name: "unparseable start ignored", start: "whenever", end: "2026-02-01", wantRange: true, wantTo: true},
		{name: "both unparseable drops the clause", start: "whenever", end: "later"},
		{name: "no bounds", wantRange: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := BuildFilter(Query{StartDate: tt.start, EndDate: tt.end})

			var rangeClause *repository.Clause
			for i := range f.Clauses {
				if f.Clauses[i].Kind == repository.ClauseRange {
					rangeClause = &f.Clauses[i]
				}
			}

			if !tt.wantRange {
				assert.Nil(t, rangeClause)
				return
			}
			require.NotNil(t, rangeClause)
			assert.Equal(t, tt.wantFrom, rangeClause.From != nil)
			assert.Equal(t, tt.wantTo, rangeClause.To != nil)
		})
	}
}

func TestBuildFilter_Categories(t *testing.T) {
	f := BuildFilter(Query{Categories: " politics, sports ,,technology "})

	require.Len(t, f.Clauses, 1)
	c := f.Clauses[0]
	assert.Equal(t, repository.ClauseIn, c.Kind)
	assert.Equal(t, "category", c.Field)
	assert.Equal(t, []string{"politics", "sports", "technology"}, c.Values)
}

func seedArticles(t *testing.T, repo repository.ArticleRepository, n int) {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	articles := make([]*entity.Article, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("art-%03d", i)
		title := fmt.Sprintf("Article %d", i)
		pub := base.Add(time.Duration(i) * time.Hour)
		articles = append(articles, &entity.Article{
			ArticleID: id,
			Title:     &title,
			PubDate:   &pub,
			FetchedAt: time.Now(),
		})
	}
	_, err := repo.BulkUpsert(context.Background(), articles)
	require.NoError(t, err)
}

func TestSearch_Pagination(t *testing.T) {
	repo := memory.NewArticleRepo()
	seedArticles(t, repo, 45)
	svc := &Service{Repo: repo}

	t.Run("full page", func(t *testing.T) {
		res, err := svc.Search(context.Background(), Query{Page: "1", Limit: "20"})
		require.NoError(t, err)
		assert.Len(t, res.Data, 20)
		assert.Equal(t, int64(45), res.Total)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 20, res.Limit)
	})

	t.Run("last partial page", func(t *testing.T) {
		res, err := svc.Search(context.Background(), Query{Page: "3", Limit: "20"})
		require.NoError(t, err)
		assert.Len(t, res.Data, 5)
		assert.Equal(t, int64(45), res.Total)
		assert.Equal(t, 3, res.Page)
	})

	t.Run("past the end", func(t *testing.T) {
		res, err := svc.Search(context.Background(), Query{Page: "9", Limit: "20"})
		require.NoError(t, err)
		assert.NotNil(t, res.Data)
		assert.Empty(t, res.Data)
		assert.Equal(t, int64(45), res.Total)
	})
}

func TestSearch_SortOrder(t *testing.T) {
	repo := memory.NewArticleRepo()
	seedArticles(t, repo, 5)
	svc := &Service{Repo: repo}

	t.Run("default is newest first", func(t *testing.T) {
		res, err := svc.Search(context.Background(), Query{})
		require.NoError(t, err)
		require.Len(t, res.Data, 5)
		for i := 1; i < len(res.Data); i++ {
			prev, cur := res.Data[i-1].PubDate, res.Data[i].PubDate
			assert.False(t, prev.Before(*cur), "expected descending pubDate")
		}
	})

	t.Run("asc flips the order", func(t *testing.T) {
		res, err := svc.Search(context.Background(), Query{Sort: "asc"})
		require.NoError(t, err)
		require.Len(t, res.Data, 5)
		for i := 1; i < len(res.Data); i++ {
			prev, cur := res.Data[i-1].PubDate, res.Data[i].PubDate
			assert.False(t, prev.After(*cur), "expected ascending pubDate")
		}
	})
}

func TestSearch_TextMatchesTitleOrContent(t *testing.T) {
	repo := memory.NewArticleRepo()
	mk := func(id, title, content string) *entity.Article {
		return &entity.Article{ArticleID: id, Title: &title, Content: &content, FetchedAt: time.Now()}
	}
	_, err := repo.BulkUpsert(context.Background(), []*entity.Article{
		mk("a", "Election results are in", "nothing else"),
		mk("b", "Weather report", "the ELECTION dominated the news"),
		mk("c", "Weather report", "sunny all week"),
	})
	require.NoError(t, err)

	svc := &Service{Repo: repo}
	res, err := svc.Search(context.Background(), Query{Text: "election"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.Total, "match on title or content, case-insensitive")
}

func TestSearch_FiltersCombineWithAnd(t *testing.T) {
	repo := memory.NewArticleRepo()
	mk := func(id, lang, country string) *entity.Article {
		return &entity.Article{ArticleID: id, Language: &lang, Country: &country, FetchedAt: time.Now()}
	}
	_, err := repo.BulkUpsert(context.Background(), []*entity.Article{
		mk("a", "en", "us"),
		mk("b", "en", "gb"),
		mk("c", "fr", "us"),
	})
	require.NoError(t, err)

	svc := &Service{Repo: repo}
	res, err := svc.Search(context.Background(), Query{Language: "en", Country: "us"})
	require.NoError(t, err)

	require.Len(t, res.Data, 1)
	assert.Equal(t, "a", res.Data[0].ArticleID)
}
