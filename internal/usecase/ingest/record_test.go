package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_ArticleID(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected string
	}{
		{
			name:     "id wins over guid and link",
			record:   Record{"id": "art-1", "guid": "guid-1", "link": "https://example.com/a"},
			expected: "art-1",
		},
		{
			name:     "guid wins over link",
			record:   Record{"guid": "guid-1", "link": "https://example.com/a"},
			expected: "guid-1",
		},
		{
			name:     "link as third choice",
			record:   Record{"link": "https://example.com/a", "title": "ignored"},
			expected: "https://example.com/a",
		},
		{
			name:     "composite fallback from title and pubDate",
			record:   Record{"title": "Breaking News", "pubDate": "2026-01-02 15:04:05"},
			expected: "Breaking News-2026-01-02 15:04:05",
		},
		{
			name:     "empty string id is treated as missing",
			record:   Record{"id": "", "guid": "guid-1"},
			expected: "guid-1",
		},
		{
			name:     "non-string id is treated as missing",
			record:   Record{"id": 42, "link": "https://example.com/a"},
			expected: "https://example.com/a",
		},
		{
			name:     "composite with everything missing",
			record:   Record{},
			expected: "-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.ArticleID())
		})
	}
}

func TestNewArticle_ContentFallback(t *testing.T) {
	fetchedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("content preferred when present", func(t *testing.T) {
		a := NewArticle(Record{"id": "a", "content": "full text", "description": "teaser"}, fetchedAt)
		require.NotNil(t, a.Content)
		assert.Equal(t, "full text", *a.Content)
	})

	t.Run("description fills missing content", func(t *testing.T) {
		a := NewArticle(Record{"id": "a", "description": "teaser"}, fetchedAt)
		require.NotNil(t, a.Content)
		assert.Equal(t, "teaser", *a.Content)
	})

	t.Run("empty content falls back to description", func(t *testing.T) {
		a := NewArticle(Record{"id": "a", "content": "", "description": "teaser"}, fetchedAt)
		require.NotNil(t, a.Content)
		assert.Equal(t, "teaser", *a.Content)
	})

	t.Run("both missing leaves content nil", func(t *testing.T) {
		a := NewArticle(Record{"id": "a"}, fetchedAt)
		assert.Nil(t, a.Content)
	})
}

func TestNewArticle_PubDate(t *testing.T) {
	fetchedAt := time.Now()

	tests := []struct {
		name    string
		record  Record
		wantNil bool
	}{
		{
			name:    "RFC3339 date is parsed",
			record:  Record{"id": "a", "pubDate": "2026-02-10T08:30:00Z"},
			wantNil: false,
		},
		{
			name:    "space-separated datetime is parsed",
			record:  Record{"id": "a", "pubDate": "2026-02-10 08:30:00"},
			wantNil: false,
		},
		{
			name:    "garbage date stays nil",
			record:  Record{"id": "a", "pubDate": "not a date"},
			wantNil: true,
		},
		{
			name:    "missing date stays nil",
			record:  Record{"id": "a"},
			wantNil: true,
		},
		{
			name:    "numeric pubDate stays nil",
			record:  Record{"id": "a", "pubDate": 1700000000},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArticle(tt.record, fetchedAt)
			if tt.wantNil {
				assert.Nil(t, a.PubDate)
			} else {
				assert.NotNil(t, a.PubDate)
			}
		})
	}
}

func TestNewArticle_MappedFields(t *testing.T) {
	fetchedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := Record{
		"id":        "art-9",
		"title":     "Title",
		"link":      "https://example.com/art-9",
		"language":  "en",
		"country":   "us",
		"category":  "technology",
		"creator":   "Jane Doe",
		"source_id": "example",
		"extra":     "kept in raw",
	}

	a := NewArticle(rec, fetchedAt)

	assert.Equal(t, "art-9", a.ArticleID)
	require.NotNil(t, a.Title)
	assert.Equal(t, "Title", *a.Title)
	require.NotNil(t, a.Creator)
	assert.Equal(t, "Jane Doe", *a.Creator)
	require.NotNil(t, a.SourceID)
	assert.Equal(t, "example", *a.SourceID)
	assert.Equal(t, fetchedAt, a.FetchedAt)
	assert.Equal(t, "kept in raw", a.Raw["extra"])
}
