package labfin

import "fmt"

// NetworkError is a failed provider call: transport error, non-200 status or
// an undecodable body
type NetworkError struct {
	Endpoint   string
	StatusCode int    // 0 when no response was received
	Body       string // truncated response body
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err == nil:
		return fmt.Sprintf("labfin %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("labfin %s: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("labfin %s: request failed", e.Endpoint)
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the provider rejected the token
func (e *NetworkError) Unauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
