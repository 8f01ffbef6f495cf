package tfl

import "fmt"

type ErrorKind string

const (
	ErrorKindTimeout        ErrorKind = "Timeout"
	ErrorKindUnauthorized   ErrorKind = "Unauthorized"
	ErrorKindInvalidRequest ErrorKind = "InvalidRequest"
	ErrorKindOther          ErrorKind = "Other"
)

type UpstreamError struct {
	Kind       ErrorKind
	StatusCode int
	URL        string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tfl crowding request %s failed (%s): status %d", e.URL, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("tfl crowding request %s failed (%s): %v", e.URL, e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Temporary reports whether another attempt could succeed: network errors, timeouts and 5xx
func (e *UpstreamError) Temporary() bool {
	switch {
	case e.Kind == ErrorKindTimeout:
		return true
	case e.StatusCode >= 500:
		return true
	case e.StatusCode == 0 && e.Kind == ErrorKindOther:
		return true
	}

	return false
}
