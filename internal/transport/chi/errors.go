package chi

import (
	"context"
	"errors"
	"net/http"

	"github.com/kailas-cloud/tagquery/internal/domain"
)

// Error codes of the JSON error body.
const (
	codeBadRequest    = "bad_request"
	codeUnauthorized  = "unauthorized"
	codeEmptyQuery    = "empty_query"
	codeInvalidTags   = "invalid_tags"
	codeImageNotFound = "image_not_found"
	codeNoTags        = "tags_not_found"
	codeNotFound      = "not_found"
	codeTimeout       = "timeout"
	codeInternal      = "internal_error"
)

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Tags    []string `json:"tags,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		unknownTagsHandler,
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeEmptyQuery),
		sentinelHandler(domain.ErrImageNotFound, http.StatusNotFound, codeImageNotFound),
		sentinelHandler(domain.ErrNoTags, http.StatusNotFound, codeNoTags),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(context.DeadlineExceeded, http.StatusServiceUnavailable, codeTimeout),
		sentinelHandler(context.Canceled, http.StatusServiceUnavailable, codeTimeout),
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrUnknownTags,
		domain.ErrImageNotFound,
		domain.ErrNoTags,
		domain.ErrNotFound,
		context.DeadlineExceeded,
		context.Canceled,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// unknownTagsHandler handles ErrUnknownTags, listing the offending tags.
func unknownTagsHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrUnknownTags) {
		return false
	}
	resp := errorResponse{Code: codeInvalidTags, Message: domain.ErrUnknownTags.Error()}
	var ute *domain.UnknownTagsError
	if errors.As(err, &ute) {
		resp.Message = ute.Error()
		resp.Tags = ute.Tags
	}
	writeJSON(w, http.StatusBadRequest, resp)
	return true
}
