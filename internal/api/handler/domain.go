package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/halvard/cms/internal/api/request"
	"github.com/halvard/cms/internal/api/response"
	"github.com/halvard/cms/internal/core"
	"github.com/halvard/cms/internal/model"
)

type Domain struct {
	svc *core.DomainService
}

func NewDomain(svc *core.DomainService) *Domain {
	return &Domain{svc: svc}
}

func (h *Domain) List(w http.ResponseWriter, r *http.Request) {
	p := request.ParsePagination(r)

	domains, hasMore, err := h.svc.List(r.Context(), p.Limit, p.Cursor)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	nextCursor := ""
	if hasMore && len(domains) > 0 {
		nextCursor = domains[len(domains)-1].Name
	}
	if domains == nil {
		domains = []model.Domain{}
	}

	response.WritePaginated(w, http.StatusOK, domains, nextCursor, hasMore)
}

func (h *Domain) Get(w http.ResponseWriter, r *http.Request) {
	name, err := request.RequireParam("name", chi.URLParam(r, "name"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	domain, err := h.svc.GetByName(r.Context(), strings.ToLower(name))
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if domain == nil {
		response.WriteError(w, http.StatusNotFound, "domain not found")
		return
	}

	response.WriteJSON(w, http.StatusOK, domain)
}

func (h *Domain) Update(w http.ResponseWriter, r *http.Request) {
	name, err := request.RequireParam("name", chi.URLParam(r, "name"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Registrar   *string    `json:"registrar"`
		ExpiresAt   *time.Time `json:"expires_at"`
		Locked      *bool      `json:"locked"`
		Renewable   *bool      `json:"renewable"`
		Status      *string    `json:"status" validate:"omitempty,oneof=active expired pending disabled"`
		NameServers []string   `json:"name_servers"`
	}
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	domain, err := h.svc.Update(r.Context(), strings.ToLower(name), model.DomainUpdate{
		Registrar:   req.Registrar,
		ExpiresAt:   req.ExpiresAt,
		Locked:      req.Locked,
		Renewable:   req.Renewable,
		Status:      req.Status,
		NameServers: req.NameServers,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.WriteError(w, http.StatusNotFound, "domain not found")
			return
		}
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, domain)
}

func (h *Domain) Delete(w http.ResponseWriter, r *http.Request) {
	name, err := request.RequireParam("name", chi.URLParam(r, "name"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.DeleteByName(r.Context(), strings.ToLower(name)); err != nil {
		switch {
		case errors.Is(err, core.ErrDomainLocked):
			response.WriteError(w, http.StatusConflict, "domain is locked")
		case errors.Is(err, pgx.ErrNoRows):
			response.WriteError(w, http.StatusNotFound, "domain not found")
		default:
			response.WriteError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
