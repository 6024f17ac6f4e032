package adapter

import "errors"

var (
	// ErrTransport means the request never produced an HTTP response
	// (connection refused, timeout, TLS failure, ...).
	ErrTransport = errors.New("transport error")

	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrPaymentRequired     = errors.New("payment required")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrUnexpectedStatus    = errors.New("unexpected response status")

	ErrDecodingResponse     = errors.New("cannot decode server response")
	ErrUnsupportedOperation = errors.New("operation is not supported for this entity type")
)

// IsAuthorizationFailure reports whether err means the credentials were
// rejected. Such errors abort a whole sync run.
func IsAuthorizationFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// IsFeatureRestriction reports whether the server refused the request
// because the workspace plan does not include the feature.
func IsFeatureRestriction(err error) bool {
	return errors.Is(err, ErrPaymentRequired)
}

// isRetryable reports whether an idempotent request may be repeated.
func isRetryable(err error) bool {
	return errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrTooManyRequests) ||
		errors.Is(err, ErrInternalServerError) ||
		errors.Is(err, ErrBadGateway)
}
