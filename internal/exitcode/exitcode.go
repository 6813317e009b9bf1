package exitcode

import (
	"os"
	"strings"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// AuthError indicates an authentication failure (bad credentials, no session)
	AuthError = 3

	// AccessDenied indicates the session is missing a required capability
	AccessDenied = 4

	// NetworkError indicates a network connectivity issue
	NetworkError = 5

	// PartialApply indicates a grant sync applied only part of the requested changes
	PartialApply = 6

	// Interrupted indicates the run was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	errMsg := strings.ToLower(err.Error())

	// Partial grant reconciliation
	if strings.Contains(errMsg, "grant sync incomplete") {
		return PartialApply
	}

	// Capability failures
	if strings.Contains(errMsg, "missing required capabilities") {
		return AccessDenied
	}

	// Authentication errors
	if strings.Contains(errMsg, "not logged in") || strings.Contains(errMsg, "login failed") {
		return AuthError
	}
	if strings.Contains(errMsg, "unauthorized") || strings.Contains(errMsg, "token") {
		return AuthError
	}

	// Network errors
	if strings.Contains(errMsg, "unreachable") || strings.Contains(errMsg, "connection") {
		return NetworkError
	}
	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "network") {
		return NetworkError
	}

	// Usage errors
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "missing argument") {
		return UsageError
	}

	return GeneralError
}

// Description returns a human-readable description of an exit code
func Description(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case AuthError:
		return "Authentication error"
	case AccessDenied:
		return "Access denied (missing capability)"
	case NetworkError:
		return "Network error"
	case PartialApply:
		return "Grant sync partially applied"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
