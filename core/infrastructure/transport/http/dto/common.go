package dto

// HealthResponse represents a health check response
type HealthResponse struct {
	Success bool `json:"success"`
}

// MessageResponse is a success flag with a human readable message
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Results is always an empty array so
// clients can read it unconditionally.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Results []any  `json:"results"`
}
