// Package apperr converts any failure of the RAG pipeline into one of five
// stable kinds before it reaches a client. Raw provider error detail never
// leaves the process.
package apperr

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"
)

type Kind int

const (
	Unknown Kind = iota
	InvalidRequest
	NotFound
	RateLimited
	AuthFailure
)

// Sentinels for failures the pipeline raises itself; provider and transport
// failures are classified by pattern instead.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrNoProvider     = errors.New("no model provider configured")
)

var rateLimitPatterns = []string{"429", "quota", "rate limit", "limit"}

var authPatterns = []string{"api_key", "api key", "unauthorized", "auth", "401", "403"}

// Classify maps an error to its kind. Rate-limit patterns are checked
// before auth ones so messages mentioning both resolve consistently.
func Classify(err error) Kind {
	if err == nil {
		return Unknown
	}
	if errors.Is(err, ErrInvalidRequest) {
		return InvalidRequest
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return NotFound
	}
	if errors.Is(err, ErrNoProvider) {
		return AuthFailure
	}
	msg := strings.ToLower(err.Error())
	for _, p := range rateLimitPatterns {
		if strings.Contains(msg, p) {
			return RateLimited
		}
	}
	for _, p := range authPatterns {
		if strings.Contains(msg, p) {
			return AuthFailure
		}
	}
	return Unknown
}

// Message returns the fixed user-facing string for the kind. The same kind
// always yields the same message.
func (k Kind) Message() string {
	switch k {
	case InvalidRequest:
		return "A question and a documentId are required."
	case NotFound:
		return "The requested book was not found on this server."
	case RateLimited:
		return "API rate limit reached. Please wait a minute and try again."
	case AuthFailure:
		return "Invalid API key. Please check the server provider credentials."
	default:
		return "Failed to process request."
	}
}

// HTTPStatus maps the kind to the response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidRequest:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case InvalidRequest:
		return "invalid_request"
	case NotFound:
		return "not_found"
	case RateLimited:
		return "rate_limited"
	case AuthFailure:
		return "auth_failure"
	default:
		return "unknown"
	}
}
