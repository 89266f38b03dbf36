package server

// Error codes returned in ErrorDetail.Code.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNetwork      = "NETWORK_ERROR"
	ErrCodeHTTP         = "HTTP_ERROR"
	ErrCodeParse        = "PARSE_ERROR"
	ErrCodeNoData       = "NO_DATA"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeTooLarge     = "PAYLOAD_TOO_LARGE"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ExtractRequest is the payload for POST /api/v1/extract.
type ExtractRequest struct {
	URL string `json:"url" binding:"required"`
	// Tag defaults to "p".
	Tag string `json:"tag,omitempty"`
}

// ExtractResponse is the result of POST /api/v1/extract.
type ExtractResponse struct {
	Success bool         `json:"success"`
	URL     string       `json:"url,omitempty"`
	Tag     string       `json:"tag,omitempty"`
	Count   int          `json:"count"`
	Items   []string     `json:"items"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ReportRequest is the payload for POST /api/v1/report.
type ReportRequest struct {
	Items []string `json:"items"`
	Title string   `json:"title,omitempty"`
	// PageSize is Letter, A4 or Legal.
	PageSize string `json:"page_size,omitempty"`
}

// ErrorResponse wraps a failure for endpoints without a richer body.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and the underlying message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// TagsResponse is returned by GET /api/v1/tags.
type TagsResponse struct {
	Tags    []string `json:"tags"`
	Default string   `json:"default"`
}
