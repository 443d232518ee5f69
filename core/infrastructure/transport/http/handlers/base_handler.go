package handlers

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
	"github.com/ebspulse/ebspulse/core/infrastructure/transport/http/dto"
	"github.com/ebspulse/ebspulse/core/shared/errors"
)

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	logger logging.Logger
}

// NewBaseHandler creates a new base handler
func NewBaseHandler(tag string) *BaseHandler {
	return &BaseHandler{
		logger: logging.New(tag),
	}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		h.logger.Errorf("Failed to encode JSON response: %v", err)
		h.WriteError(w, errors.NewAppError(errors.ErrCodeInternalError, "failed to encode response", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Debugf("Failed to write response: %v", err)
	}
}

// WriteError writes the error envelope with the status mapped from the error code
func (h *BaseHandler) WriteError(w http.ResponseWriter, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewAppError(errors.ErrCodeInternalError, err.Error(), err)
	}

	body, _ := json.Marshal(dto.ErrorResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    string(appErr.Code),
		Results: []any{},
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_, _ = w.Write(append(body, '\n'))
}

// WriteSuccess writes a success response
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, data any) {
	h.WriteJSON(w, http.StatusOK, data)
}
