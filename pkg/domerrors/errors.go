package domerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of domain failure. Every rejected precondition in the
// registry surfaces one of these, so transports can map failures without string
// matching.
type Code string

const (
	CodeUnauthorized        Code = "unauthorized"
	CodeTokenNotFound       Code = "token_not_found"
	CodeMintingDisabled     Code = "minting_disabled"
	CodeClaimingDisabled    Code = "claiming_disabled"
	CodeInsufficientPayment Code = "insufficient_payment"
	CodeSupplyExhausted     Code = "supply_exhausted"
	CodeAlreadyMinted       Code = "already_minted"
	CodeAlreadyClaimed      Code = "already_claimed"
	CodeNotTokenOwner       Code = "not_token_owner"
	CodeMultiplierTooLow    Code = "multiplier_too_low"
	CodeInvalidPrice        Code = "invalid_price"
	CodeLengthMismatch      Code = "length_mismatch"
	CodeNoFunds             Code = "no_funds"
	CodeReentrantCall       Code = "reentrant_call"
	CodeBadRequest          Code = "bad_request"
	CodeInternal            Code = "internal"
)

// Error is a domain error with a stable code and a human-readable message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a domain error with the given code.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err carries the given domain code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the domain code from err, or CodeInternal when err is not a
// domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the human-readable message from err, falling back to
// err.Error() for non-domain errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
