package mongo

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson"

	"newshub/internal/repository"
)

func TestCompileFilter(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		build    func() repository.Filter
		expected bson.M
	}{
		{
			name:     "empty filter matches everything",
			build:    func() repository.Filter { return repository.Filter{} },
			expected: bson.M{},
		},
		{
			name: "closed date range",
			build: func() repository.Filter {
				var f repository.Filter
				f.Range("pubDate", &from, &to)
				return f
			},
			expected: bson.M{"pubDate": bson.M{"$gte": from, "$lte": to}},
		},
		{
			name: "open-ended range",
			build: func() repository.Filter {
				var f repository.Filter
				f.Range("pubDate", &from, nil)
				return f
			},
			expected: bson.M{"pubDate": bson.M{"$gte": from}},
		},
		{
			name: "range with no bounds compiles away",
			build: func() repository.Filter {
				var f repository.Filter
				f.Range("pubDate", nil, nil)
				return f
			},
			expected: bson.M{},
		},
		{
			name: "equality and membership",
			build: func() repository.Filter {
				var f repository.Filter
				f.Eq("language", "en")
				f.In("category", []string{"tech", "sports"})
				return f
			},
			expected: bson.M{
				"language": "en",
				"category": bson.M{"$in": []string{"tech", "sports"}},
			},
		},
		{
			name: "substring becomes case-insensitive regex",
			build: func() repository.Filter {
				var f repository.Filter
				f.Substr("creator", "smith")
				return f
			},
			expected: bson.M{"creator": bson.M{"$regex": "smith", "$options": "i"}},
		},
		{
			name: "or group mixes equality and substring members",
			build: func() repository.Filter {
				var f repository.Filter
				f.Or(
					repository.EqClause("type", "video"),
					repository.EqClause("raw.type", "video"),
					repository.SubstrClause("title", "cup"),
				)
				return f
			},
			expected: bson.M{
				"$or": []bson.M{
					{"type": "video"},
					{"raw.type": "video"},
					{"title": bson.M{"$regex": "cup", "$options": "i"}},
				},
			},
		},
		{
			name: "conjunction with a single or group",
			build: func() repository.Filter {
				var f repository.Filter
				f.Eq("country", "us")
				f.Or(
					repository.SubstrClause("title", "rally"),
					repository.SubstrClause("content", "rally"),
				)
				return f
			},
			expected: bson.M{
				"country": "us",
				"$or": []bson.M{
					{"title": bson.M{"$regex": "rally", "$options": "i"}},
					{"content": bson.M{"$regex": "rally", "$options": "i"}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compileFilter(tt.build())
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("compileFilter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
