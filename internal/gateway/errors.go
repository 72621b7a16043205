package gateway

import (
	"errors"
	"fmt"
)

// ValidationError reports a request that was rejected before any network
// call: missing identity or a write attempted in guest mode.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError reports a product database miss for a barcode.
type NotFoundError struct {
	Barcode string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product not found for barcode %s", e.Barcode)
}

// RequestError reports a non-success HTTP status from a collaborator.
// Detail carries the response body when one was readable.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// TransportError reports a network-level failure before any HTTP status
// was received. The UI treats it exactly like a RequestError.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string { return "request failed: " + e.Cause.Error() }

func (e *TransportError) Unwrap() error { return e.Cause }

// Message maps any gateway error to its user-visible string. Request
// details pass through verbatim when present; transport failures read the
// same as request failures.
func Message(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return "Product not found"
	}
	var re *RequestError
	if errors.As(err, &re) {
		if re.Detail != "" {
			return re.Detail
		}
		return fmt.Sprintf("Request failed with status %d", re.Status)
	}
	var te *TransportError
	if errors.As(err, &te) {
		return "Request failed, please check your connection"
	}
	return err.Error()
}
