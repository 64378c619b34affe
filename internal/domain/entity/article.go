// Package entity defines the core domain entities for the application.
// It contains the fundamental business objects such as Article and User,
// along with their domain-specific errors.
package entity

import "time"

// Article represents a single news article as persisted in the article store.
// Articles are keyed by ArticleID, a natural key derived from the upstream
// record, and are fully overwritten on every ingestion that re-observes the
// same key. Raw retains the complete upstream record for forward
// compatibility with fields that are not otherwise modeled.
type Article struct {
	ArticleID string         `bson:"articleId" json:"articleId"`
	Title     *string        `bson:"title" json:"title"`
	Link      *string        `bson:"link" json:"link"`
	Content   *string        `bson:"content" json:"content"`
	PubDate   *time.Time     `bson:"pubDate" json:"pubDate"`
	Language  *string        `bson:"language" json:"language"`
	Country   *string        `bson:"country" json:"country"`
	Category  *string        `bson:"category" json:"category"`
	Creator   *string        `bson:"creator" json:"creator"`
	SourceID  *string        `bson:"source_id" json:"source_id"`
	Raw       map[string]any `bson:"raw" json:"raw"`
	FetchedAt time.Time      `bson:"fetchedAt" json:"fetchedAt"`
}
