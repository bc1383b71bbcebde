package auth

import (
	"errors"
	"fmt"

	chatguard_errors "chatguard/pkg/errors"
)

// Reason classifies why a token was rejected. ReasonNone means the token was
// accepted.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMalformedToken
	ReasonUnacceptableAlgorithm
	ReasonBadSignature
	ReasonExpired
	ReasonNotYetValid
	ReasonMissingSubject
)

var (
	ErrMalformedToken        = errors.New("malformed token")
	ErrUnacceptableAlgorithm = errors.New("unacceptable signing algorithm")
	ErrBadSignature          = errors.New("bad signature")
	ErrExpired               = errors.New("token expired")
	ErrNotYetValid           = errors.New("token not yet valid")
	ErrMissingSubject        = errors.New("missing subject claim")
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMalformedToken:
		return "malformed_token"
	case ReasonUnacceptableAlgorithm:
		return "unacceptable_algorithm"
	case ReasonBadSignature:
		return "bad_signature"
	case ReasonExpired:
		return "expired"
	case ReasonNotYetValid:
		return "not_yet_valid"
	case ReasonMissingSubject:
		return "missing_subject"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

func (r Reason) sentinel() error {
	switch r {
	case ReasonMalformedToken:
		return ErrMalformedToken
	case ReasonUnacceptableAlgorithm:
		return ErrUnacceptableAlgorithm
	case ReasonBadSignature:
		return ErrBadSignature
	case ReasonExpired:
		return ErrExpired
	case ReasonNotYetValid:
		return ErrNotYetValid
	case ReasonMissingSubject:
		return ErrMissingSubject
	default:
		return nil
	}
}

// Result is the verdict of a single Verify call.
type Result struct {
	Subject string
	Reason  Reason

	cause error
}

func valid(subject string) Result {
	return Result{Subject: subject}
}

func invalid(reason Reason, cause error) Result {
	return Result{Reason: reason, cause: cause}
}

// Valid reports whether the token was accepted.
func (r Result) Valid() bool {
	return r.Reason == ReasonNone
}

// Err returns nil for a valid result, otherwise a *VerificationError that
// matches both the reason sentinel and chatguard_errors.ErrUnauthorized.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &VerificationError{Reason: r.Reason, Cause: r.cause}
}

// VerificationError carries the rejection reason and, when the JWT library
// produced one, the underlying parse error.
type VerificationError struct {
	Reason Reason
	Cause  error
}

func (e *VerificationError) Error() string {
	msg := "token rejected: " + e.Reason.String()
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *VerificationError) Unwrap() []error {
	errs := []error{chatguard_errors.ErrUnauthorized}
	if s := e.Reason.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
