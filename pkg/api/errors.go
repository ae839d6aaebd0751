package api

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every failure the client can produce. Callers
// match on these with errors.Is; the *Error wrapper carries the detail.
var (
	// ErrMissingRequiredField indicates the parameter normalizer could not
	// satisfy the selected parameter set. Raised before any network call.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrUnsupportedOperation indicates the resolved resource type is known
	// not to support the requested operation. Raised before any network call.
	ErrUnsupportedOperation = errors.New("operation not supported for this resource type")

	// ErrAPIResponse indicates the remote host answered with a non-2xx
	// status. The server message is passed through verbatim.
	ErrAPIResponse = errors.New("API request failed")

	// ErrTransport indicates no response was obtained from the host.
	ErrTransport = errors.New("transport failure")
)

// Error is the uniform failure shape for all client operations.
type Error struct {
	// Op is the logical operation, e.g. "clusters.Get".
	Op string

	// Endpoint is the method and resolved path of the attempted request,
	// e.g. "GET /api/2.0/clusters/get". Empty for normalizer errors that
	// never produced a request.
	Endpoint string

	// StatusCode is the HTTP status for ErrAPIResponse errors, zero
	// otherwise.
	StatusCode int

	// ErrorCode is the machine-readable code from the server error body,
	// when one was provided (e.g. "RESOURCE_DOES_NOT_EXIST").
	ErrorCode string

	// Kind is one of the sentinel errors above.
	Kind error

	// Msg is the human-readable detail. For API errors this is the server
	// message verbatim.
	Msg string

	// Err is the underlying cause, if any (e.g. the net error behind a
	// transport failure).
	Err error
}

func (e *Error) Error() string {
	s := e.Op
	if e.Msg != "" {
		s = fmt.Sprintf("%s: %s", s, e.Msg)
	}
	if e.StatusCode != 0 {
		s = fmt.Sprintf("%s (status %d)", s, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", s, e.Err)
	}
	return fmt.Sprintf("%s: %v", s, e.Kind)
}

// Unwrap returns the underlying cause when present, the sentinel kind
// otherwise.
func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is reports whether target matches this error's kind, so that
// errors.Is(err, api.ErrTransport) works regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// MissingField returns the error raised when a parameter set requires a field
// the caller did not supply.
func MissingField(op, field string) *Error {
	return &Error{
		Op:   op,
		Kind: ErrMissingRequiredField,
		Msg:  field,
	}
}

// Unsupported returns the error raised when a valid-looking input maps to a
// resource type that rejects the operation.
func Unsupported(op, msg string) *Error {
	return &Error{
		Op:   op,
		Kind: ErrUnsupportedOperation,
		Msg:  msg,
	}
}

// StatusCode extracts the HTTP status from an error chain, or zero if the
// error did not originate from a non-2xx response.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsRetryable reports whether err is worth retrying: transport failures plus
// throttling and server-side statuses. Used by the retry package; the
// dispatcher itself never retries.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrTransport) {
		return true
	}
	if code := StatusCode(err); code == 429 || code >= 500 {
		return true
	}
	return false
}
