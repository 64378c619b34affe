// Package repository declares the persistence contracts of the application.
// Concrete implementations live under internal/infra/adapter/persistence and
// are selected at startup by configuration.
package repository

import (
	"context"

	"newshub/internal/domain/entity"
)

// BulkResult reports the outcome of a bulk upsert operation.
type BulkResult struct {
	Inserted int64
	Modified int64
}

// CategoryCount is one row of the per-category article aggregation.
type CategoryCount struct {
	Category *string `bson:"_id" json:"_id"`
	Count    int64   `bson:"count" json:"count"`
}

// ArticleRepository is the document-store contract for articles.
//
// BulkUpsert stages one upsert-by-articleId per article and submits them as a
// single unordered batch: a conflict on one record must not block the rest.
// Find and Count evaluate the same Filter so a page and its total always
// agree on the matching set.
type ArticleRepository interface {
	// EnsureIndexes creates the unique index on articleId. Best-effort at
	// startup; callers treat failure as non-fatal.
	EnsureIndexes(ctx context.Context) error
	BulkUpsert(ctx context.Context, articles []*entity.Article) (BulkResult, error)
	Find(ctx context.Context, f Filter, sort Sort, page Page) ([]*entity.Article, error)
	Count(ctx context.Context, f Filter) (int64, error)
	// CountAll returns the total number of stored articles.
	CountAll(ctx context.Context) (int64, error)
	// CategoryCounts returns article counts grouped by category,
	// ordered by count descending.
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
}
