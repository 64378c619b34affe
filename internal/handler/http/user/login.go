// Package user exposes user login bookkeeping and role lookup endpoints.
package user

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"newshub/internal/domain/entity"
	"newshub/internal/handler/http/auth"
	"newshub/internal/handler/http/respond"
	"newshub/internal/observability/logging"
	userUC "newshub/internal/usecase/user"
)

type loginRequest struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
	Role     string `json:"role"`
}

// LoginHandler serves POST /user: upserts the authenticated user and stamps
// the login time.
type LoginHandler struct {
	Svc    *userUC.Service
	Logger *slog.Logger
}

func (h LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	email := auth.EmailFromContext(ctx)

	// An empty body is fine; profile fields are optional.
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("ignoring malformed login body", slog.Any("error", err))
		req = loginRequest{}
	}

	created, err := h.Svc.RecordLogin(ctx, userUC.LoginInput{
		Email:    email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, entity.ErrEmailRequired) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		logger.Error("login upsert failed",
			slog.String("email", email),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respond.JSON(w, status, map[string]any{"email": email, "created": created})
}
