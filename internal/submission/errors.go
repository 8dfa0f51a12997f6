package submission

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInFlight is returned when the trigger is activated while a request is
// still outstanding. No request is issued.
var ErrInFlight = errors.New("a study plan request is already in flight")

const (
	msgMissingFields = "Some fields are missing"
	msgGeneric       = "Something went wrong"
	msgBadPayload    = "Unexpected response from the study plan creator"
)

type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindValidation ErrorKind = "validation"
	KindTransport  ErrorKind = "transport"
	KindStatus     ErrorKind = "status"
	KindPayload    ErrorKind = "payload"
	KindInFlight   ErrorKind = "in_flight"
	KindUnknown    ErrorKind = "unknown"
)

// ValidationError reports required fields that were empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", msgMissingFields, strings.Join(e.Fields, ", "))
}

// StatusError is a non-success status or an application error in the body.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// PayloadError means the body could not be parsed or lacked the markdown field.
type PayloadError struct {
	Reason string
	Err    error
}

func (e *PayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payload: %s: %v", e.Reason, e.Err)
	}
	return "payload: " + e.Reason
}

func (e *PayloadError) Unwrap() error { return e.Err }

// TransportError is a request that failed before any response arrived.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// Kind classifies err into the submission error taxonomy.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var (
		ve *ValidationError
		se *StatusError
		pe *PayloadError
		te *TransportError
	)
	switch {
	case errors.Is(err, ErrInFlight):
		return KindInFlight
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &se):
		return KindStatus
	case errors.As(err, &pe):
		return KindPayload
	case errors.As(err, &te):
		return KindTransport
	}
	return KindUnknown
}

// Message returns the short text shown to the user for err.
func Message(err error) string {
	var se *StatusError
	switch Kind(err) {
	case KindNone:
		return ""
	case KindValidation:
		return msgMissingFields
	case KindInFlight:
		return "A study plan is already being created"
	case KindStatus:
		if errors.As(err, &se) && se.Message != "" {
			return se.Message
		}
		return msgGeneric
	case KindPayload:
		return msgBadPayload
	}
	return msgGeneric
}
