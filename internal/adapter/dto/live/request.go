package live

// StopLiveRequest represents a request to stop a live recording
type StopLiveRequest struct {
	SessionID string `json:"session_id" form:"session_id" query:"session_id" validate:"required"`
}
