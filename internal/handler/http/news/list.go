// Package news exposes the article query endpoint.
package news

import (
	"log/slog"
	"net/http"

	"newshub/internal/handler/http/respond"
	"newshub/internal/observability/logging"
	newsUC "newshub/internal/usecase/news"
)

// ListHandler serves GET /api/news: filtered, paginated article retrieval.
type ListHandler struct {
	Svc    *newsUC.Service
	Logger *slog.Logger
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	params := r.URL.Query()
	q := newsUC.Query{
		StartDate:   params.Get("startDate"),
		EndDate:     params.Get("endDate"),
		Author:      params.Get("author"),
		Language:    params.Get("language"),
		Country:     params.Get("country"),
		Categories:  params.Get("categories"),
		ContentType: params.Get("contentType"),
		Text:        params.Get("q"),
		Page:        params.Get("page"),
		Limit:       params.Get("limit"),
		Sort:        params.Get("sort"),
	}

	result, err := h.Svc.Search(ctx, q)
	if err != nil {
		logger.Error("news query failed",
			slog.String("query", r.URL.RawQuery),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Debug("news query served",
		slog.Int("page", result.Page),
		slog.Int("limit", result.Limit),
		slog.Int64("total", result.Total),
		slog.Int("returned", len(result.Data)))

	respond.JSON(w, http.StatusOK, result)
}
