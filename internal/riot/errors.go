package riot

import (
	"errors"
	"fmt"
)

// ErrRateLimited signals a 429 from the API. The scheduler retries these with
// backoff; they are never surfaced to the end user per attempt.
var ErrRateLimited = errors.New("riot api rate limited (429)")

// ErrNotFound signals a 404 - the match or player does not exist.
var ErrNotFound = errors.New("riot api not found (404)")

// ProviderError is a non-retryable provider failure (4xx/5xx other than 429).
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("riot api error: status %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether the error should be retried by the scheduler.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsFatal reports whether the error is a non-retryable provider failure.
func IsFatal(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) || errors.Is(err, ErrNotFound)
}
