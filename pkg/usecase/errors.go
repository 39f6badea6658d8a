package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Access control errors
	ErrAccessDenied    = errors.New("access denied to project")
	ErrUnauthenticated = errors.New("authentication required")

	// ErrLLMNotConfigured is returned by suggestion and generation operations when no model client is set
	ErrLLMNotConfigured = errors.New("LLM is not configured")
)

// Context keys for error values
const (
	ProjectIDKey  = "project_id"
	RiskIDKey     = "risk_id"
	DocumentIDKey = "document_id"
	StageKey      = "stage"
)
