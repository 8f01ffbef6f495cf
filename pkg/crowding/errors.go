package crowding

import (
	"errors"
	"fmt"

	"github.com/travigo/crowding/pkg/ctdf"
	"github.com/travigo/crowding/pkg/tfl"
)

type ErrorKind string

const (
	ErrorKindUnknownLine      ErrorKind = "UnknownLine"
	ErrorKindUnknownStation   ErrorKind = "UnknownStation"
	ErrorKindInvalidDirection ErrorKind = "InvalidDirection"

	ErrorKindTimeout        ErrorKind = "Timeout"
	ErrorKindUnauthorized   ErrorKind = "Unauthorized"
	ErrorKindInvalidRequest ErrorKind = "InvalidRequest"
	ErrorKindOther          ErrorKind = "Other"

	ErrorKindMalformedPayload ErrorKind = "MalformedPayload"
)

// ServiceError is the only error type GetCrowding returns
type ServiceError struct {
	Kind      ErrorKind
	Selection ctdf.LineSelection
	Err       error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("crowding lookup %s failed (%s): %v", e.Selection, e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// SelectionError reports errors caused by the callers line/station/direction choice
func (e *ServiceError) SelectionError() bool {
	switch e.Kind {
	case ErrorKindUnknownLine, ErrorKindUnknownStation, ErrorKindInvalidDirection:
		return true
	}
	return false
}

type NormalizationError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *NormalizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalizing crowding payload (%s): %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("normalizing crowding payload (%s): %s", e.Kind, e.Reason)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}

func malformed(reason string, err error) *NormalizationError {
	return &NormalizationError{Kind: ErrorKindMalformedPayload, Reason: reason, Err: err}
}

func upstreamServiceError(selection ctdf.LineSelection, err error) *ServiceError {
	kind := ErrorKindOther

	var upstreamError *tfl.UpstreamError
	if errors.As(err, &upstreamError) {
		switch upstreamError.Kind {
		case tfl.ErrorKindTimeout:
			kind = ErrorKindTimeout
		case tfl.ErrorKindUnauthorized:
			kind = ErrorKindUnauthorized
		case tfl.ErrorKindInvalidRequest:
			kind = ErrorKindInvalidRequest
		}
	}

	return &ServiceError{Kind: kind, Selection: selection, Err: err}
}
