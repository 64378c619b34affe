package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestBulkUpsert_Idempotent(t *testing.T) {
	repo := NewArticleRepo()
	ctx := context.Background()

	batch := []*entity.Article{
		{ArticleID: "a", Title: strPtr("first")},
		{ArticleID: "b", Title: strPtr("second")},
	}

	res, err := repo.BulkUpsert(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Inserted)
	assert.Equal(t, int64(0), res.Modified)

	// Same batch again: same store size, all modifications.
	res, err = repo.BulkUpsert(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Inserted)
	assert.Equal(t, int64(2), res.Modified)

	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestBulkUpsert_DuplicateWithinBatch(t *testing.T) {
	repo := NewArticleRepo()
	ctx := context.Background()

	res, err := repo.BulkUpsert(ctx, []*entity.Article{
		{ArticleID: "a", Title: strPtr("v1")},
		{ArticleID: "a", Title: strPtr("v2")},
		{ArticleID: "b", Title: strPtr("other")},
	})
	require.NoError(t, err, "one conflicting record must not fail the batch")
	assert.Equal(t, int64(2), res.Inserted)
	assert.Equal(t, int64(1), res.Modified)

	found, err := repo.Find(ctx, repository.Filter{}, repository.Sort{}, repository.Page{})
	require.NoError(t, err)
	require.Len(t, found, 2)
	for _, a := range found {
		if a.ArticleID == "a" {
			assert.Equal(t, "v2", *a.Title, "last write in the batch wins")
		}
	}
}

func TestBulkUpsert_ReplacesExisting(t *testing.T) {
	repo := NewArticleRepo()
	ctx := context.Background()

	_, err := repo.BulkUpsert(ctx, []*entity.Article{
		{ArticleID: "a", Title: strPtr("old"), Content: strPtr("old body")},
	})
	require.NoError(t, err)

	later := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err = repo.BulkUpsert(ctx, []*entity.Article{
		{ArticleID: "a", Title: strPtr("new"), FetchedAt: later},
	})
	require.NoError(t, err)

	found, err := repo.Find(ctx, repository.Filter{}, repository.Sort{}, repository.Page{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "new", *found[0].Title)
	assert.Equal(t, later, found[0].FetchedAt)
	assert.Nil(t, found[0].Content, "upsert replaces the whole document")
}

func seedFilterFixtures(t *testing.T, repo *ArticleRepo) {
	t.Helper()
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	_, err := repo.BulkUpsert(context.Background(), []*entity.Article{
		{
			ArticleID: "jan-en-tech",
			Title:     strPtr("Chip makers rally"),
			Content:   strPtr("semiconductor supply recovers"),
			PubDate:   timePtr(jan),
			Language:  strPtr("en"),
			Country:   strPtr("us"),
			Category:  strPtr("technology"),
			Creator:   strPtr("Alice Cooper"),
			Raw:       map[string]any{"type": "article"},
		},
		{
			ArticleID: "feb-en-sports",
			Title:     strPtr("Cup final recap"),
			PubDate:   timePtr(feb),
			Language:  strPtr("en"),
			Country:   strPtr("gb"),
			Category:  strPtr("sports"),
			Creator:   strPtr("Bob"),
			Raw:       map[string]any{"type": "video"},
		},
		{
			ArticleID: "undated-fr",
			Title:     strPtr("Sans date"),
			Language:  strPtr("fr"),
			Country:   strPtr("fr"),
		},
	})
	require.NoError(t, err)
}

func TestFind_Filters(t *testing.T) {
	repo := NewArticleRepo()
	seedFilterFixtures(t, repo)
	ctx := context.Background()

	tests := []struct {
		name    string
		build   func() repository.Filter
		wantIDs []string
	}{
		{
			name: "date range excludes undated and out-of-range",
			build: func() repository.Filter {
				var f repository.Filter
				from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
				to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
				f.Range("pubDate", &from, &to)
				return f
			},
			wantIDs: []string{"jan-en-tech"},
		},
		{
			name: "language equality",
			build: func() repository.Filter {
				var f repository.Filter
				f.Eq("language", "en")
				return f
			},
			wantIDs: []string{"jan-en-tech", "feb-en-sports"},
		},
		{
			name: "category membership",
			build: func() repository.Filter {
				var f repository.Filter
				f.In("category", []string{"sports", "politics"})
				return f
			},
			wantIDs: []string{"feb-en-sports"},
		},
		{
			name: "creator substring is case-insensitive",
			build: func() repository.Filter {
				var f repository.Filter
				f.Substr("creator", "alice")
				return f
			},
			wantIDs: []string{"jan-en-tech"},
		},
		{
			name: "or group over raw field variants",
			build: func() repository.Filter {
				var f repository.Filter
				f.Or(
					repository.EqClause("type", "video"),
					repository.EqClause("raw.type", "video"),
				)
				return f
			},
			wantIDs: []string{"feb-en-sports"},
		},
		{
			name: "conjunction of clauses",
			build: func() repository.Filter {
				var f repository.Filter
				f.Eq("language", "en")
				f.Eq("country", "us")
				return f
			},
			wantIDs: []string{"jan-en-tech"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.Find(ctx, tt.build(), repository.Sort{}, repository.Page{})
			require.NoError(t, err)

			ids := make([]string, 0, len(found))
			for _, a := range found {
				ids = append(ids, a.ArticleID)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
		})
	}
}

func TestFind_InvalidPatternErrors(t *testing.T) {
	repo := NewArticleRepo()
	seedFilterFixtures(t, repo)

	var f repository.Filter
	f.Substr("title", "([unclosed")

	_, err := repo.Find(context.Background(), f, repository.Sort{}, repository.Page{})
	require.Error(t, err)
}

func TestFind_SortAndWindow(t *testing.T) {
	repo := NewArticleRepo()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var batch []*entity.Article
	for i := 0; i < 10; i++ {
		pub := base.AddDate(0, 0, i)
		batch = append(batch, &entity.Article{
			ArticleID: string(rune('a' + i)),
			PubDate:   timePtr(pub),
		})
	}
	_, err := repo.BulkUpsert(ctx, batch)
	require.NoError(t, err)

	found, err := repo.Find(ctx, repository.Filter{},
		repository.Sort{Field: "pubDate", Ascending: false},
		repository.Page{Skip: 2, Limit: 3})
	require.NoError(t, err)

	require.Len(t, found, 3)
	assert.Equal(t, "h", found[0].ArticleID)
	assert.Equal(t, "g", found[1].ArticleID)
	assert.Equal(t, "f", found[2].ArticleID)
}

func TestCategoryCounts(t *testing.T) {
	repo := NewArticleRepo()
	ctx := context.Background()

	mk := func(id string, cat *string) *entity.Article {
		return &entity.Article{ArticleID: id, Category: cat}
	}
	_, err := repo.BulkUpsert(ctx, []*entity.Article{
		mk("a", strPtr("tech")),
		mk("b", strPtr("tech")),
		mk("c", strPtr("tech")),
		mk("d", strPtr("sports")),
		mk("e", nil),
	})
	require.NoError(t, err)

	counts, err := repo.CategoryCounts(ctx)
	require.NoError(t, err)

	require.Len(t, counts, 3)
	require.NotNil(t, counts[0].Category)
	assert.Equal(t, "tech", *counts[0].Category)
	assert.Equal(t, int64(3), counts[0].Count)

	var sawNil bool
	for _, c := range counts {
		if c.Category == nil {
			sawNil = true
			assert.Equal(t, int64(1), c.Count)
		}
	}
	assert.True(t, sawNil, "uncategorized bucket present")
}
