package domain

type ContextKey string

// SessionContextKey holds the anonymous storefront session id.
const SessionContextKey ContextKey = "session"

// Response standardizes API error responses.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Fields  []string    `json:"fields,omitempty"`
}
