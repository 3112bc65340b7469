package common

import "time"

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// HealthResponse reports liveness and which backends are configured
type HealthResponse struct {
	Status      string          `json:"status"`
	Environment string          `json:"environment"`
	Stores      map[string]bool `json:"stores"`
	Transcriber bool            `json:"transcriber"`
	Time        time.Time       `json:"time"`
}
