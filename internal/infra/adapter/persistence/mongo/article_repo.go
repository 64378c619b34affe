// Package mongo provides the MongoDB implementations of the repository
// interfaces. It is the primary article store; the in-memory adapter under
// persistence/memory is the configuration-selected fallback.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

const articlesCollection = "articles"

type ArticleRepo struct {
	col    *mongo.Collection
	logger *slog.Logger
}

func NewArticleRepo(db *mongo.Database, logger *slog.Logger) repository.ArticleRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArticleRepo{col: db.Collection(articlesCollection), logger: logger}
}

// EnsureIndexes creates the unique index on articleId that backs the
// upsert-by-natural-key invariant.
func (r *ArticleRepo) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "articleId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.col.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("EnsureIndexes: %w", err)
	}
	return nil
}

// BulkUpsert submits one unordered batch of upsert-by-articleId operations.
// Unordered semantics mean a single failing operation, such as a uniqueness
// conflict from a racing cycle, does not block the rest of the batch; partial
// write errors are logged and the partial counts returned without error.
func (r *ArticleRepo) BulkUpsert(ctx context.Context, articles []*entity.Article) (repository.BulkResult, error) {
	if len(articles) == 0 {
		return repository.BulkResult{}, nil
	}

	models := make([]mongo.WriteModel, 0, len(articles))
	for _, a := range articles {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"articleId": a.ArticleID}).
			SetUpdate(bson.M{"$set": a}).
			SetUpsert(true))
	}

	res, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return r.bulkResult(res, err)
}

// bulkResult translates the driver outcome into the repository result.
// A BulkWriteException with a usable partial result is downgraded to a
// successful partial commit.
func (r *ArticleRepo) bulkResult(res *mongo.BulkWriteResult, err error) (repository.BulkResult, error) {
	if err != nil {
		var bwe mongo.BulkWriteException
		if !errors.As(err, &bwe) || res == nil {
			return repository.BulkResult{}, fmt.Errorf("BulkUpsert: %w", err)
		}
		for _, we := range bwe.WriteErrors {
			r.logger.Warn("bulk upsert write error",
				slog.Int("index", we.Index),
				slog.Int("code", we.Code),
				slog.String("message", we.Message))
		}
	}
	return repository.BulkResult{
		Inserted: res.UpsertedCount,
		Modified: res.ModifiedCount,
	}, nil
}

func (r *ArticleRepo) Find(ctx context.Context, f repository.Filter, sort repository.Sort, page repository.Page) ([]*entity.Article, error) {
	order := -1
	if sort.Ascending {
		order = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: sort.Field, Value: order}}).
		SetSkip(int64(page.Skip)).
		SetLimit(int64(page.Limit))

	cur, err := r.col.Find(ctx, compileFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("Find: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	articles := make([]*entity.Article, 0, page.Limit)
	if err := cur.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("Find: decode: %w", err)
	}
	return articles, nil
}

func (r *ArticleRepo) Count(ctx context.Context, f repository.Filter) (int64, error) {
	n, err := r.col.CountDocuments(ctx, compileFilter(f))
	if err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

func (r *ArticleRepo) CountAll(ctx context.Context) (int64, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("CountAll: %w", err)
	}
	return n, nil
}

// CategoryCounts groups articles by category, most populous first.
func (r *ArticleRepo) CategoryCounts(ctx context.Context) ([]repository.CategoryCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("CategoryCounts: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var counts []repository.CategoryCount
	if err := cur.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("CategoryCounts: decode: %w", err)
	}
	return counts, nil
}
