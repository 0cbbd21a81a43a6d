package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/report"
	"github.com/cmlabs-hris/attendance-audit/internal/handler/http/response"
)

type ExportHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
}

type exportHandlerImpl struct {
	exportService report.ExportService
}

func NewExportHandler(exportService report.ExportService) ExportHandler {
	return &exportHandlerImpl{
		exportService: exportService,
	}
}

// Create handles POST /exports
func (h *exportHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req report.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", nil)
		return
	}

	result, err := h.exportService.Export(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Export generated", result)
}

// Download handles GET /exports/{token}
func (h *exportHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	file, err := h.exportService.Open(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}
