package api

import (
	"fmt"
)

// ErrorKind classifies an UpstreamError.
type ErrorKind int

const (
	// KindOther is any failure without a more specific kind.
	KindOther ErrorKind = iota
	// KindNotFound covers withdrawn, hidden, region-blocked and empty payloads.
	KindNotFound
	// KindAuthRequired covers login and VIP gating.
	KindAuthRequired
	// KindTimeout covers client deadlines and gateway timeouts.
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAuthRequired:
		return "auth_required"
	case KindTimeout:
		return "timeout"
	default:
		return "other"
	}
}

// UpstreamError is any non-success upstream outcome.
type UpstreamError struct {
	Endpoint   string
	Code       int
	Message    string
	StatusCode int
	Kind       ErrorKind
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("upstream %s: kind=%s code=%d", e.Endpoint, e.Kind, e.Code)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" http_status=%d", e.StatusCode)
	}
	if e.Message != "" {
		msg += " message=" + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsNotFound, RequiresAuth and IsTimeout report the error's Kind.
func (e *UpstreamError) IsNotFound() bool { return e.Kind == KindNotFound }

func (e *UpstreamError) RequiresAuth() bool { return e.Kind == KindAuthRequired }

func (e *UpstreamError) IsTimeout() bool { return e.Kind == KindTimeout }

// KindForCode maps an upstream result code to an ErrorKind.
func KindForCode(code int) ErrorKind {
	switch code {
	case CodeNotFound, CodeInvisible, CodeUnderReview:
		return KindNotFound
	case CodeNotLoggedIn, CodeAuthLimit, CodeRiskControl, CodeNeedPurchase:
		return KindAuthRequired
	default:
		return KindOther
	}
}

func codeError(endpoint string, code int, message string) *UpstreamError {
	return &UpstreamError{Endpoint: endpoint, Code: code, Message: message, Kind: KindForCode(code)}
}

func emptyPayloadError(endpoint, what string) *UpstreamError {
	return &UpstreamError{Endpoint: endpoint, Message: what, Kind: KindNotFound}
}
