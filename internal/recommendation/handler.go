// AngelaMos | 2026
// handler.go

package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/adpilot/internal/account"
	"github.com/carterperez-dev/adpilot/internal/core"
	"github.com/carterperez-dev/adpilot/internal/middleware"
)

// ThresholdSource supplies the caller's configured confidence threshold.
// Implemented by the settings service.
type ThresholdSource interface {
	ConfidenceThreshold(ctx context.Context, userID string) (int, error)
}

type Handler struct {
	repo       Repository
	generator  *Generator
	applier    *Applier
	resolver   *account.Resolver
	thresholds ThresholdSource
	validator  *validator.Validate
}

func NewHandler(
	repo Repository,
	generator *Generator,
	applier *Applier,
	resolver *account.Resolver,
	thresholds ThresholdSource,
) *Handler {
	return &Handler{
		repo:       repo,
		generator:  generator,
		applier:    applier,
		resolver:   resolver,
		thresholds: thresholds,
		validator:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/recommendations", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListRecommendations)
		r.Get("/last-generated", h.GetLastGenerated)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Post("/generate", h.Generate)
			r.Post("/{id}/apply", h.ApplyRecommendation)
			r.Post("/{id}/dismiss", h.DismissRecommendation)
		})
	})
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}

		if err := h.validator.Struct(req); err != nil {
			core.BadRequest(w, core.FormatValidationError(err))
			return
		}
	}

	principal := account.Principal{
		UserID: middleware.GetUserID(r.Context()),
		Role:   middleware.GetUserRole(r.Context()),
	}

	summary, err := h.generator.Run(r.Context(), principal, req.Accounts)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "requested accounts are outside your permitted selection")
		case errors.Is(err, core.ErrInvalidState):
			core.JSONError(w, err)
		case errors.Is(err, core.ErrProviderUnavailable):
			core.JSONError(w, core.ProviderUnavailableError())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, summary)
}

func (h *Handler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	principal := account.Principal{
		UserID: userID,
		Role:   middleware.GetUserRole(r.Context()),
	}

	scope, err := h.resolver.Resolve(r.Context(), principal, requestedAccounts(r))
	if err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "requested accounts are outside your permitted selection")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	var threshold int
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > 100 {
			core.BadRequest(w, "threshold must be an integer between 0 and 100")
			return
		}
		threshold = parsed
	} else {
		threshold, err = h.thresholds.ConfidenceThreshold(r.Context(), userID)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
	}

	ids := scope.CustomerIDs
	if !scope.Filtered {
		ids = nil
	}

	pending, err := h.repo.ListPending(r.Context(), ids)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	visible := FilterByConfidence(pending, threshold)

	core.OK(w, ToPendingResponseList(visible))
}

func (h *Handler) GetLastGenerated(w http.ResponseWriter, r *http.Request) {
	principal := account.Principal{
		UserID: middleware.GetUserID(r.Context()),
		Role:   middleware.GetUserRole(r.Context()),
	}

	scope, err := h.resolver.Resolve(r.Context(), principal, requestedAccounts(r))
	if err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "requested accounts are outside your permitted selection")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	ids := scope.CustomerIDs
	if !scope.Filtered {
		ids = nil
	}

	last, err := h.repo.LastGeneratedAt(r.Context(), ids)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, LastGeneratedResponse{LastGeneratedAt: last})
}

func (h *Handler) ApplyRecommendation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.applier.Apply(
		r.Context(),
		chi.URLParam(r, "id"),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		h.respondActionError(w, err)
		return
	}

	core.OK(w, ToRecommendationResponse(rec))
}

func (h *Handler) DismissRecommendation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.applier.Dismiss(
		r.Context(),
		chi.URLParam(r, "id"),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		h.respondActionError(w, err)
		return
	}

	core.OK(w, ToRecommendationResponse(rec))
}

func (h *Handler) respondActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "recommendation")
	case errors.Is(err, core.ErrInvalidState):
		core.JSONError(w, err)
	default:
		core.InternalServerError(w, err)
	}
}

func requestedAccounts(r *http.Request) []string {
	raw := r.URL.Query().Get("accounts")
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
