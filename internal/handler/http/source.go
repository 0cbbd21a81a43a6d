package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/sse"
)

type SourceHandler interface {
	Reload(w http.ResponseWriter, r *http.Request)
}

type sourceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	hub               *sse.Hub
}

func NewSourceHandler(attendanceService attendance.AttendanceService, hub *sse.Hub) SourceHandler {
	return &sourceHandlerImpl{
		attendanceService: attendanceService,
		hub:               hub,
	}
}

type reloadResponse struct {
	Changed    bool   `json:"changed"`
	ReloadedAt string `json:"reloaded_at"`
}

// Reload handles POST /source/reload
func (h *sourceHandlerImpl) Reload(w http.ResponseWriter, r *http.Request) {
	changed, err := h.attendanceService.Reload(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	res := reloadResponse{
		Changed:    changed,
		ReloadedAt: time.Now().Format(time.RFC3339),
	}

	if changed {
		slog.Info("Attendance export reloaded on request")
		h.hub.Publish(sse.TopicDataset, sse.Event{Event: cron.EventDatasetReloaded, Data: res})
	}

	response.SuccessWithMessage(w, "Attendance export reloaded", res)
}
