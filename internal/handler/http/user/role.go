package user

import (
	"log/slog"
	"net/http"

	"newshub/internal/handler/http/auth"
	"newshub/internal/handler/http/respond"
	"newshub/internal/observability/logging"
	userUC "newshub/internal/usecase/user"
)

// RoleHandler serves GET /user/role: the stored role of the authenticated
// user, or an empty role when the user has never logged in.
type RoleHandler struct {
	Svc    *userUC.Service
	Logger *slog.Logger
}

func (h RoleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	email := auth.EmailFromContext(ctx)

	role, err := h.Svc.RoleOf(ctx, email)
	if err != nil {
		logger.Error("role lookup failed",
			slog.String("email", email),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"email": email, "role": role})
}
