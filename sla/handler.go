package sla

import (
	"errors"
	"net/http"
	"strconv"

	"trustmonitor/shared"

	"go.uber.org/zap"
)

// Handler serves GET and HEAD /download-sla.
type Handler struct {
	source *Source
	logger *zap.Logger
}

func NewHandler(source *Source, logger *zap.Logger) *Handler {
	return &Handler{
		source: source,
		logger: logger.With(zap.String("component", "sla")),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		shared.WriteJSONError(w, http.StatusMethodNotAllowed, shared.ErrMsgMethodNotAllowed)
		return
	}

	doc, err := h.source.Load()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			shared.WriteJSONError(w, http.StatusNotFound, shared.ErrMsgNotFound)
			return
		}
		h.logger.Error("SLA PDF serve error", zap.String("path", h.source.Path), zap.Error(err))
		shared.WriteJSONError(w, http.StatusInternalServerError, shared.ErrMsgInternal)
		return
	}

	header := w.Header()
	header.Set("Content-Type", "application/pdf")
	header.Set("Content-Length", strconv.Itoa(doc.Size()))
	header.Set("Content-Disposition", `attachment; filename="`+DownloadFilename+`"`)
	header.Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set("X-Frame-Options", "DENY")
	header.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
	header.Set("Accept-Ranges", "none")
	header.Set(DigestHeader, doc.SHA256)
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(doc.Body); err != nil {
		h.logger.Debug("Client went away during SLA download", zap.Error(err))
	}
}
