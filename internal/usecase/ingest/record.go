package ingest

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"

	"newshub/internal/domain/entity"
)

// Record is one loosely-typed article record as returned by the upstream
// news API. Upstream schema versions disagree on types and field presence,
// so the record is kept as a raw map and fields are extracted defensively.
type Record map[string]any

// str returns the value under key when it is a non-empty string, nil
// otherwise. Arrays and other non-string values are left to Raw.
func (r Record) str(key string) *string {
	if v, ok := r[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

// rawStr returns the string under key or "" when absent or not a string.
func (r Record) rawStr(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// ArticleID derives the natural key of the record. Precedence: id, then
// guid, then link; when all three are missing, a composite of title and the
// publication-date string. The result is stable across repeated fetches of
// the same upstream record.
func (r Record) ArticleID() string {
	for _, key := range []string{"id", "guid", "link"} {
		if v := r.str(key); v != nil {
			return *v
		}
	}
	return fmt.Sprintf("%s-%s", r.rawStr("title"), r.rawStr("pubDate"))
}

// NewArticle converts an upstream record into its canonical Article.
// Content falls back to the description field, the publication date is nil
// when absent or unparseable, and FetchedAt is always the supplied ingestion
// time so every upsert reflects the most recent cycle.
func NewArticle(r Record, fetchedAt time.Time) *entity.Article {
	content := r.str("content")
	if content == nil {
		content = r.str("description")
	}

	var pubDate *time.Time
	if s := r.str("pubDate"); s != nil {
		if t, err := dateparse.ParseAny(*s); err == nil {
			pubDate = &t
		}
	}

	return &entity.Article{
		ArticleID: r.ArticleID(),
		Title:     r.str("title"),
		Link:      r.str("link"),
		Content:   content,
		PubDate:   pubDate,
		Language:  r.str("language"),
		Country:   r.str("country"),
		Category:  r.str("category"),
		Creator:   r.str("creator"),
		SourceID:  r.str("source_id"),
		Raw:       map[string]any(r),
		FetchedAt: fetchedAt,
	}
}
