package fetch

import "fmt"

// Error is the typed failure returned once a request has exhausted its
// retry budget or hit a terminal client error. Adapters catch it and
// degrade to an empty result set rather than propagating.
type Error struct {
	// URL is the request URL without query parameters.
	URL string

	// StatusCode is the last HTTP status observed, or 0 when the
	// failure never produced a response.
	StatusCode int

	// Attempts is how many tries were made.
	Attempts int

	// Err is the underlying transport error, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v (after %d attempts)", e.URL, e.Err, e.Attempts)
	}
	return fmt.Sprintf("fetch %s: HTTP %d (after %d attempts)", e.URL, e.StatusCode, e.Attempts)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsClientError reports whether the failure was a terminal 4xx rather
// than an exhausted transient condition.
func (e *Error) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != 429
}
