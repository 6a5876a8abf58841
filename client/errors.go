package client

import (
	"context"
	"errors"

	"github.com/famomatic/bilidown/internal/api"
	"github.com/famomatic/bilidown/internal/types"
)

var (
	// ErrUnrecognizedURL indicates a URL no category rule matches.
	ErrUnrecognizedURL = types.ErrUnrecognizedURL
	// ErrIdentifierMissing indicates a matched URL without a usable id.
	ErrIdentifierMissing = types.ErrIdentifierMissing
	// ErrMissingRequiredParameter indicates a request lacking a required id.
	ErrMissingRequiredParameter = types.ErrMissingRequiredParameter
	// ErrUnknownCategory indicates no handler is registered for a category.
	ErrUnknownCategory = types.ErrUnknownCategory
	// ErrDuplicateRegistration indicates two handlers for one category.
	ErrDuplicateRegistration = types.ErrDuplicateRegistration
	// ErrIO indicates a local file could not be written.
	ErrIO = types.ErrIO
)

// UpstreamError is returned for any failed platform response.
type UpstreamError = api.UpstreamError

// ErrorKind classifies an UpstreamError.
type ErrorKind = api.ErrorKind

const (
	KindOther        = api.KindOther
	KindNotFound     = api.KindNotFound
	KindAuthRequired = api.KindAuthRequired
	KindTimeout      = api.KindTimeout
)

// ErrorCategory is a stable label for an error, suitable for exit codes and metrics.
type ErrorCategory string

const (
	ErrorCategoryNone            ErrorCategory = "none"
	ErrorCategoryUnrecognizedURL ErrorCategory = "unrecognized_url"
	ErrorCategoryInvalidRequest  ErrorCategory = "invalid_request"
	ErrorCategoryUnknownCategory ErrorCategory = "unknown_category"
	ErrorCategoryNotFound        ErrorCategory = "not_found"
	ErrorCategoryAuthRequired    ErrorCategory = "auth_required"
	ErrorCategoryTimeout         ErrorCategory = "timeout"
	ErrorCategoryUpstream        ErrorCategory = "upstream"
	ErrorCategoryIO              ErrorCategory = "io"
	ErrorCategoryCanceled        ErrorCategory = "canceled"
	ErrorCategoryUnknown         ErrorCategory = "unknown"
)

// ClassifyError maps err to its ErrorCategory.
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryNone
	}
	switch {
	case errors.Is(err, ErrUnrecognizedURL):
		return ErrorCategoryUnrecognizedURL
	case errors.Is(err, ErrIdentifierMissing), errors.Is(err, ErrMissingRequiredParameter):
		return ErrorCategoryInvalidRequest
	case errors.Is(err, ErrUnknownCategory):
		return ErrorCategoryUnknownCategory
	case errors.Is(err, ErrIO):
		return ErrorCategoryIO
	case errors.Is(err, context.Canceled):
		return ErrorCategoryCanceled
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.Kind {
		case KindNotFound:
			return ErrorCategoryNotFound
		case KindAuthRequired:
			return ErrorCategoryAuthRequired
		case KindTimeout:
			return ErrorCategoryTimeout
		default:
			return ErrorCategoryUpstream
		}
	}
	return ErrorCategoryUnknown
}
