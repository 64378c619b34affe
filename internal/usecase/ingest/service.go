// Package ingest implements the fetch-and-store cycle that keeps the article
// store fresh from the upstream news API. Each cycle is independent: failures
// are logged and terminate the cycle without retry, the next scheduled run
// being the retry mechanism.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

// ErrUnsupportedFilter is returned by fetchers when the upstream rejects the
// request with its known "UnsupportedFilter" error code. It is a benign
// condition: the cycle ends without writes and without counting as a failure.
var ErrUnsupportedFilter = errors.New("upstream rejected request: unsupported filter")

// Fetcher retrieves the latest page of records from the upstream source.
type Fetcher interface {
	FetchLatest(ctx context.Context) ([]Record, error)
}

// CycleStats summarizes one fetch-and-store cycle.
type CycleStats struct {
	Fetched  int
	Inserted int64
	Modified int64
	Duration time.Duration
}

// Service runs ingestion cycles against the article store.
type Service struct {
	Repo    repository.ArticleRepository
	Fetcher Fetcher
	Logger  *slog.Logger

	// Now is the clock used for fetchedAt stamps; defaults to time.Now.
	Now func() time.Time
}

// NewService creates an ingestion service. logger may be nil, in which case
// the default logger is used.
func NewService(repo repository.ArticleRepository, fetcher Fetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Repo: repo, Fetcher: fetcher, Logger: logger, Now: time.Now}
}

// RunCycle executes one fetch-transform-upsert pass.
//
// The upstream's first page is accepted as-is; no pagination parameters are
// sent, which caps each cycle to a single page of results. Every returned
// record is mapped to its canonical Article and the whole batch is submitted
// as one unordered bulk upsert keyed on articleId, so running the same cycle
// twice produces no duplicates and the store always reflects the latest
// fetch. A benign UnsupportedFilter response ends the cycle with a warning
// and no error.
func (s *Service) RunCycle(ctx context.Context) (*CycleStats, error) {
	start := s.now()
	s.Logger.Info("fetching latest news")

	records, err := s.Fetcher.FetchLatest(ctx)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFilter) {
			s.Logger.Warn("skipping cycle", slog.Any("reason", err))
			return &CycleStats{Duration: time.Since(start)}, nil
		}
		return nil, fmt.Errorf("fetch latest: %w", err)
	}

	stats := &CycleStats{Fetched: len(records)}
	if len(records) == 0 {
		s.Logger.Info("no articles returned")
		stats.Duration = time.Since(start)
		return stats, nil
	}

	fetchedAt := s.now()
	articles := make([]*entity.Article, 0, len(records))
	for _, rec := range records {
		articles = append(articles, NewArticle(rec, fetchedAt))
	}

	result, err := s.Repo.BulkUpsert(ctx, articles)
	if err != nil {
		return nil, fmt.Errorf("bulk upsert: %w", err)
	}
	stats.Inserted = result.Inserted
	stats.Modified = result.Modified
	stats.Duration = time.Since(start)

	s.Logger.Info("articles upserted",
		slog.Int("fetched", stats.Fetched),
		slog.Int64("inserted", stats.Inserted),
		slog.Int64("modified", stats.Modified),
		slog.Duration("duration", stats.Duration))
	return stats, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
