package paypal

import "fmt"

// AuthError means the OAuth2 client-credentials exchange failed; nothing
// was sent to the orders API.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("paypal auth: %v", e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// RequestError is a non-2xx response from order creation or lookup.
type RequestError struct {
	HTTPStatus int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("paypal request failed: status %d", e.HTTPStatus)
}

// CaptureError is a capture attempt the provider rejected for any reason
// other than the order already being captured. Status carries the
// provider's own status string for diagnostics.
type CaptureError struct {
	HTTPStatus int
	Status     string
	Body       string
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("paypal capture failed: status %d (%s)", e.HTTPStatus, e.Status)
}
