// AngelaMos | 2026
// handler.go

package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/adpilot/internal/core"
	"github.com/carterperez-dev/adpilot/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/accounts", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListAccounts)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Post("/", h.ConnectAccount)
			r.Post("/{id}/refresh-token", h.RefreshToken)
			r.Delete("/{id}", h.DisconnectAccount)
		})
	})
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToAccountResponseList(accounts))
}

func (h *Handler) ConnectAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ConnectAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	created, err := h.service.Connect(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.JSONError(w, core.DuplicateError("customer_id"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToAccountResponse(created))
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	var req RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.RefreshAccessToken(r.Context(), accountID, req); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "account")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) DisconnectAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	confirmed := r.URL.Query().Get("confirm") == "true"

	err := h.service.Disconnect(r.Context(), accountID, confirmed)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.JSONError(w, err)
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "account")
		case errors.Is(err, core.ErrInvalidState):
			core.JSONError(w, core.InvalidStateError("account is already disconnected"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}
