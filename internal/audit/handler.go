// AngelaMos | 2026
// handler.go

package audit

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/adpilot/internal/account"
	"github.com/carterperez-dev/adpilot/internal/core"
	"github.com/carterperez-dev/adpilot/internal/middleware"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type Handler struct {
	repo     Repository
	resolver *account.Resolver
}

func NewHandler(repo Repository, resolver *account.Resolver) *Handler {
	return &Handler{repo: repo, resolver: resolver}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListEntries)
		r.Get("/campaigns/{id}", h.ListCampaignEntries)
	})
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	principal := account.Principal{
		UserID: middleware.GetUserID(r.Context()),
		Role:   middleware.GetUserRole(r.Context()),
	}

	scope, err := h.resolver.Resolve(
		r.Context(),
		principal,
		requestedAccounts(r),
	)
	if err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "requested accounts are outside your permitted selection")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	page, pageSize := parsePagination(r)

	ids := scope.CustomerIDs
	if !scope.Filtered {
		ids = nil
	}

	entries, total, err := h.repo.List(
		r.Context(),
		ids,
		pageSize,
		(page-1)*pageSize,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, entries, page, pageSize, total)
}

func (h *Handler) ListCampaignEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.ListByCampaign(
		r.Context(),
		chi.URLParam(r, "id"),
		defaultPageSize,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, entries)
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

func parsePagination(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize

	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			pageSize = parsed
			if pageSize > maxPageSize {
				pageSize = maxPageSize
			}
		}
	}

	return page, pageSize
}

// Purger cascades audit-log deletion when an ads account is disconnected.
// Disconnect is the single exception to append-only audit storage.
type Purger struct{}

func (Purger) DeleteByAccount(
	ctx context.Context,
	tx *sqlx.Tx,
	customerID string,
) error {
	return NewRepository(tx).DeleteByCustomerID(ctx, customerID)
}
