// AngelaMos | 2026
// handler.go

package campaign

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/adpilot/internal/account"
	"github.com/carterperez-dev/adpilot/internal/core"
	"github.com/carterperez-dev/adpilot/internal/middleware"
)

type Handler struct {
	service      *Service
	resolver     *account.Resolver
	trailingDays int
	validator    *validator.Validate
}

// NewHandler builds the campaign handler. trailingDays bounds the summary
// window when the request supplies no explicit date range.
func NewHandler(service *Service, resolver *account.Resolver, trailingDays int) *Handler {
	return &Handler{
		service:      service,
		resolver:     resolver,
		trailingDays: trailingDays,
		validator:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/campaigns", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListCampaigns)
		r.Get("/summary", h.GetSummary)
		r.Get("/{id}", h.GetCampaign)

		r.With(adminOnly).Put("/sync", h.SyncCampaigns)
	})
}

func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.resolveScope(w, r)
	if !ok {
		return
	}

	campaigns, err := h.service.List(r.Context(), scope)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToCampaignResponseList(campaigns))
}

func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.resolveScope(w, r)
	if !ok {
		return
	}

	campaign, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "campaign")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	// Out-of-scope campaigns are indistinguishable from missing ones.
	if !scope.Contains(campaign.CustomerID) {
		core.NotFound(w, "campaign")
		return
	}

	core.OK(w, ToCampaignResponse(campaign))
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.resolveScope(w, r)
	if !ok {
		return
	}

	from, to, err := parseDateRange(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	// Day granularity keeps the summary cache key stable across requests.
	if from.IsZero() && to.IsZero() && h.trailingDays > 0 {
		from = time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -h.trailingDays)
	}

	summary, err := h.service.Summary(r.Context(), scope, from, to)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSummaryResponse(summary))
}

func (h *Handler) SyncCampaigns(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req SyncCampaignsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	synced, err := h.service.Sync(r.Context(), userID, req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SyncResponse{Synced: synced})
}

func (h *Handler) resolveScope(
	w http.ResponseWriter,
	r *http.Request,
) (account.Scope, bool) {
	principal := account.Principal{
		UserID: middleware.GetUserID(r.Context()),
		Role:   middleware.GetUserRole(r.Context()),
	}

	scope, err := h.resolver.Resolve(r.Context(), principal, requestedAccounts(r))
	if err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "requested accounts are outside your permitted selection")
			return account.Scope{}, false
		}
		core.InternalServerError(w, err)
		return account.Scope{}, false
	}

	return scope, true
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

func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	var from, to time.Time

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return from, to, errors.New("from must be formatted as YYYY-MM-DD")
		}
		from = parsed
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return from, to, errors.New("to must be formatted as YYYY-MM-DD")
		}
		to = parsed
	}

	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, errors.New("to must not precede from")
	}

	return from, to, nil
}
