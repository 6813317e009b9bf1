package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeAuthBadCredentials ErrorCode = "AUTH-001"
	ErrCodeAuthRegisterFailed ErrorCode = "AUTH-002"
	ErrCodeAuthNotLoggedIn    ErrorCode = "AUTH-003"
	ErrCodeAuthProfileFetch   ErrorCode = "AUTH-004"
	ErrCodeAuthAccessDenied   ErrorCode = "AUTH-005"
	ErrCodeAuthTokenPersist   ErrorCode = "AUTH-006"

	// Token errors (TOKEN-001 to TOKEN-099)
	ErrCodeTokenMalformed ErrorCode = "TOKEN-001"
	ErrCodeTokenExpired   ErrorCode = "TOKEN-002"

	// Grant reconciliation errors (GRANT-001 to GRANT-099)
	ErrCodeGrantFetchFailed  ErrorCode = "GRANT-001"
	ErrCodeGrantUnknown      ErrorCode = "GRANT-002"
	ErrCodeGrantPartialApply ErrorCode = "GRANT-003"
	ErrCodeGrantApplyFailed  ErrorCode = "GRANT-004"

	// Remote API errors (API-001 to API-099)
	ErrCodeAPIUnavailable ErrorCode = "API-001"
	ErrCodeAPIStatus      ErrorCode = "API-002"
	ErrCodeAPIDecode      ErrorCode = "API-003"
	ErrCodeAPINotFound    ErrorCode = "API-004"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG-002"
	ErrCodeConfigKey      ErrorCode = "CONFIG-003"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileReadFailed  ErrorCode = "IO-001"
	ErrCodeFileWriteFailed ErrorCode = "IO-002"
)

// DeckError represents an enhanced error with code, suggestions, and documentation
type DeckError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *DeckError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *DeckError) Unwrap() error {
	return e.Cause
}

// New creates a new DeckError
func New(code ErrorCode, message string) *DeckError {
	return &DeckError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new DeckError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *DeckError {
	return &DeckError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *DeckError) WithSuggestion(suggestion string) *DeckError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *DeckError) WithSuggestions(suggestions ...string) *DeckError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *DeckError) WithDocs(url string) *DeckError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewBadCredentialsError creates a login failure error
func NewBadCredentialsError(username string) *DeckError {
	return New(ErrCodeAuthBadCredentials, fmt.Sprintf("login failed for user: %s", username)).
		WithSuggestion("Check your username and password").
		WithSuggestion("Run 'jobdeck auth register' if you do not have an account yet")
}

// NewNotLoggedInError creates a missing-session error
func NewNotLoggedInError() *DeckError {
	return New(ErrCodeAuthNotLoggedIn, "not logged in").
		WithSuggestion("Run 'jobdeck auth login --username <name>' to authenticate")
}

// NewAccessDeniedError creates a capability-check failure error
func NewAccessDeniedError(missing []string) *DeckError {
	return New(ErrCodeAuthAccessDenied,
		fmt.Sprintf("missing required capabilities: %s", strings.Join(missing, ", "))).
		WithSuggestion("Ask an administrator to grant the required permissions").
		WithSuggestion("Run 'jobdeck auth status' to inspect your current capabilities")
}

// NewServiceUnavailableError creates a remote connectivity error
func NewServiceUnavailableError(baseURL string, cause error) *DeckError {
	return Wrap(ErrCodeAPIUnavailable, fmt.Sprintf("scheduler service unreachable at %s", baseURL), cause).
		WithSuggestion("Check that the scheduler service is running").
		WithSuggestion("Set --api-url or the JOBDECK_API_URL environment variable if the service runs elsewhere")
}

// NewPartialApplyError creates a partial grant-reconciliation error
func NewPartialApplyError(applied, failed int, cause error) *DeckError {
	return Wrap(ErrCodeGrantPartialApply,
		fmt.Sprintf("grant sync incomplete: %d change(s) applied, %d failed", applied, failed), cause).
		WithSuggestion("Re-run 'jobdeck grants show <user>' to see the actual assignments").
		WithSuggestion("Retry the sync once the service is reachable again")
}
