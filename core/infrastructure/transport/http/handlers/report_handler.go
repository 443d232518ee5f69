package handlers

import (
	"net/http"

	"github.com/ebspulse/ebspulse/core/domain/interfaces"
	"github.com/ebspulse/ebspulse/core/infrastructure/transport/http/dto"
)

// ReportHandler serves the report routes and the connection check
type ReportHandler struct {
	*BaseHandler
	service interfaces.ReportService
}

// NewReportHandler creates a report handler over service
func NewReportHandler(service interfaces.ReportService) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler("handler"),
		service:     service,
	}
}

// Report returns the handler for one named report. Query string values are handed to
// the service as raw strings; the first value wins for repeated keys.
func (h *ReportHandler) Report(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		inputs := make(map[string]string, len(query))
		for key := range query {
			inputs[key] = query.Get(key)
		}

		result, err := h.service.RunReport(r.Context(), name, inputs)
		if err != nil {
			h.logger.Warnf("Report %s: %v", name, err)
			h.WriteError(w, err)
			return
		}

		h.logger.Debugf("Report %s: %d row(s)", name, result.Len())
		h.WriteSuccess(w, result)
	}
}

// TestConnection pings the database through one pooled connection
func (h *ReportHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.service.TestConnection(r.Context()); err != nil {
		h.logger.Errorf("Connection test failed: %v", err)
		h.WriteError(w, err)
		return
	}
	h.WriteSuccess(w, dto.MessageResponse{
		Success: true,
		Message: "Database connection successful!",
	})
}

// Heartbeat answers without touching the database
func (h *ReportHandler) Heartbeat(w http.ResponseWriter, _ *http.Request) {
	h.WriteSuccess(w, dto.HealthResponse{Success: true})
}
