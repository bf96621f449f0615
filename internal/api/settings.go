package api

import (
	"context"
	"net/http"
	"sort"

	"github.com/balagrajendran/purchase-management-sub001/internal/metrics"
	"github.com/balagrajendran/purchase-management-sub001/internal/pagination"
	"github.com/balagrajendran/purchase-management-sub001/internal/settings"
	"github.com/balagrajendran/purchase-management-sub001/internal/store"
)

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	doc, err := h.settings.Get(r.Context())
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (h *Handler) patchSettings(w http.ResponseWriter, r *http.Request) {
	h.writeSettings(w, r, "patch", h.settings.Patch)
}

func (h *Handler) putSettings(w http.ResponseWriter, r *http.Request) {
	h.writeSettings(w, r, "replace", h.settings.Replace)
}

func (h *Handler) writeSettings(w http.ResponseWriter, r *http.Request, op string, write func(context.Context, map[string]any) (store.Document, error)) {
	var input map[string]any
	if err := decodeJSON(r, &input); err != nil {
		respondDecodeError(w, err)
		return
	}

	if h.opts.SettingsStrict {
		_, issues := settings.Sanitize(input)
		var details []fieldIssue
		for _, issue := range issues {
			if issue.Rejecting() {
				details = append(details, fieldIssue{Field: issue.Field, Message: issue.Message})
			}
		}
		if len(details) > 0 {
			sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })
			respondValidation(w, details)
			return
		}
	}

	doc, err := write(r.Context(), input)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	metrics.RecordWrite(settings.Collection, op)
	respondJSON(w, http.StatusOK, doc)
}

func (h *Handler) settingsHistory(w http.ResponseWriter, r *http.Request) {
	limit := pagination.ParseLimit(r.URL.Query().Get("limit"))
	items, err := h.settings.History(r.Context(), limit)
	if err != nil {
		respondServerError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}
