package types

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tags the failure modes a forecast request can end in.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindHTTP
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindHTTP:
		return "http_error"
	case KindValidation:
		return "validation_error"
	default:
		return "unknown"
	}
}

// NotFoundError is returned when the geocoder has no match for an address.
type NotFoundError struct {
	Address string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find coordinates for address %q", e.Address)
}

// HTTPError is returned when a remote service answers with a non-success status.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("request to %s returned status %d", e.URL, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// FieldError describes a single offending field in a payload.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every field that failed schema checks.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "invalid forecast payload: " + strings.Join(parts, "; ")
}

// Has reports whether field is among the offending fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// KindOf classifies err by walking its wrap chain.
func KindOf(err error) Kind {
	var (
		notFound   *NotFoundError
		httpErr    *HTTPError
		validation *ValidationError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.As(err, &httpErr):
		return KindHTTP
	case errors.As(err, &validation):
		return KindValidation
	default:
		return KindUnknown
	}
}
