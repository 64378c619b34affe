// Package stats aggregates store-wide counts for the dashboard overview.
package stats

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"newshub/internal/repository"
)

// Overview holds the aggregate numbers served by the stats endpoint.
type Overview struct {
	TotalArticles int64                      `json:"totalArticles"`
	TotalUsers    int64                      `json:"totalUsers"`
	Categories    []repository.CategoryCount `json:"categories"`
}

// Service computes aggregate statistics across the article and user stores.
type Service struct {
	Articles repository.ArticleRepository
	Users    repository.UserRepository
}

// Overview gathers the three aggregates concurrently; the store provides its
// own concurrency control so the counts need no coordination beyond waiting.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var out Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.Articles.CountAll(ctx)
		if err != nil {
			return fmt.Errorf("count articles: %w", err)
		}
		out.TotalArticles = n
		return nil
	})
	g.Go(func() error {
		n, err := s.Users.CountAll(ctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		out.TotalUsers = n
		return nil
	})
	g.Go(func() error {
		cats, err := s.Articles.CategoryCounts(ctx)
		if err != nil {
			return fmt.Errorf("category counts: %w", err)
		}
		out.Categories = cats
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if out.Categories == nil {
		out.Categories = []repository.CategoryCount{}
	}
	return &out, nil
}
