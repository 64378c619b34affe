package http

import (
	"log/slog"
	"net/http"

	"newshub/internal/handler/http/respond"
	"newshub/internal/observability/logging"
	statsUC "newshub/internal/usecase/stats"
)

// StatsHandler serves GET /stats: aggregate article and user counts plus the
// per-category distribution.
type StatsHandler struct {
	Svc    *statsUC.Service
	Logger *slog.Logger
}

func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	overview, err := h.Svc.Overview(ctx)
	if err != nil {
		logger.Error("stats aggregation failed", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, overview)
}
