package httpapi

import (
	"net/http"
	"strings"
)

type languagePathRequest struct {
	Lang string `validate:"required,alpha,min=2,max=8"`
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	if h.services.Content == nil {
		writeError(ctx, w, notConfigured("content service"))
		return
	}

	req := languagePathRequest{Lang: strings.TrimSpace(r.PathValue("lang"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.services.Content.ListLeagues(ctx, req.Lang)
	if err != nil {
		h.logger.WarnContext(ctx, "list leagues failed", "language", req.Lang, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListBookmakers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBookmakers")
	defer span.End()

	if h.services.Content == nil {
		writeError(ctx, w, notConfigured("content service"))
		return
	}

	req := languagePathRequest{Lang: strings.TrimSpace(r.PathValue("lang"))}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.services.Content.ListBookmakers(ctx, req.Lang)
	if err != nil {
		h.logger.WarnContext(ctx, "list bookmakers failed", "language", req.Lang, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
