package errors

// ErrorCode identifies an application error category in API responses
type ErrorCode int32

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1004

	// Transcription
	ErrorCode_MISSING_AUDIO         ErrorCode = 2000
	ErrorCode_TRANSCRIPTION_FAILED  ErrorCode = 2001
	ErrorCode_TRANSCRIPTION_UNAVAIL ErrorCode = 2002

	// Persistence
	ErrorCode_STORE_UNREACHABLE    ErrorCode = 3000
	ErrorCode_STORE_REJECTED       ErrorCode = 3001
	ErrorCode_SCHEMA_TYPE_MISMATCH ErrorCode = 3002

	// Live sessions
	ErrorCode_SESSION_NOT_FOUND ErrorCode = 5000
	ErrorCode_SESSION_COMPLETED ErrorCode = 5001

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 6000
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_MISSING_AUDIO:              "MISSING_AUDIO",
	ErrorCode_TRANSCRIPTION_FAILED:       "TRANSCRIPTION_FAILED",
	ErrorCode_TRANSCRIPTION_UNAVAIL:      "TRANSCRIPTION_UNAVAILABLE",
	ErrorCode_STORE_UNREACHABLE:          "STORE_UNREACHABLE",
	ErrorCode_STORE_REJECTED:             "STORE_REJECTED",
	ErrorCode_SCHEMA_TYPE_MISMATCH:       "SCHEMA_TYPE_MISMATCH",
	ErrorCode_SESSION_NOT_FOUND:          "SESSION_NOT_FOUND",
	ErrorCode_SESSION_COMPLETED:          "SESSION_COMPLETED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
