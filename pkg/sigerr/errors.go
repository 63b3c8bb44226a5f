// Package sigerr defines the single error type surfaced at the boundary of
// the message-signatures API: Signer, Verifier, and the digest header
// helpers. Internal packages keep using plain wrapped errors; sigerr is
// where those get classified into one of a closed set of sub-codes.
package sigerr

import "errors"

// Code identifies the reason a signing or verification operation failed.
type Code string

const (
	InvalidStructuredHeader Code = "INVALID_STRUCTURED_HEADER"
	MissingComponent        Code = "MISSING_COMPONENT"
	DuplicateComponent      Code = "DUPLICATE_COMPONENT"
	UnsupportedAlgorithm    Code = "UNSUPPORTED_ALGORITHM"
	KeyError                Code = "KEY_ERROR"
	CryptoError             Code = "CRYPTO_ERROR"
	InvalidSignature        Code = "INVALID_SIGNATURE"
	MissingParameter        Code = "MISSING_PARAMETER"
	ForbiddenParameter      Code = "FORBIDDEN_PARAMETER"
	AmbiguousLabel          Code = "AMBIGUOUS_LABEL"
	FutureSignature         Code = "FUTURE_SIGNATURE"
	TooOld                  Code = "TOO_OLD"
	Expired                 Code = "EXPIRED"
	Mismatch                Code = "MISMATCH"
)

// Error is the single error kind returned across the httpsig and digest
// package boundaries. Callers branch on Code rather than on error strings
// or type assertions against internal error types.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with no wrapped cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error that wraps a lower-level cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf reports the Code carried by err, if err is (or wraps) a *Error.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}
