package fetcher

import (
	"time"

	"github.com/sirupsen/logrus"
	"resty.dev/v3"
)

const (
	// Default retry backoff
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second
)

// ClientOptions tunes the HTTP client behind the proxy fetcher.
// Zero wait times fall back to the defaults above. A RetryCount of zero
// disables retries.
type ClientOptions struct {
	Timeout          time.Duration
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
}

// NewHTTPClient creates a new HTTP client with retry logic and exponential backoff
func NewHTTPClient(opts ClientOptions) *resty.Client {
	retryCount := opts.RetryCount
	if retryCount < 0 {
		retryCount = 0
	}
	waitTime := opts.RetryWaitTime
	if waitTime <= 0 {
		waitTime = defaultRetryWaitTime
	}
	maxWaitTime := opts.RetryMaxWaitTime
	if maxWaitTime <= 0 {
		maxWaitTime = defaultRetryMaxWaitTime
	}

	client := resty.New().
		SetRetryCount(retryCount).
		SetRetryWaitTime(waitTime).
		SetRetryMaxWaitTime(maxWaitTime).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook)

	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return client
}

// retryCondition determines whether a request should be retried based on the response and error
func retryCondition(r *resty.Response, err error) bool {
	// Retry on network errors
	if err != nil {
		return true
	}

	// Retry on server errors (5xx)
	if r.StatusCode() >= 500 {
		return true
	}

	// Retry on rate limit (429) and request timeout (408)
	if r.StatusCode() == 429 || r.StatusCode() == 408 {
		return true
	}

	return false
}

// retryHook logs retry attempts for observability
func retryHook(r *resty.Response, err error) {
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"url":     r.Request.URL,
			"attempt": r.Request.Attempt,
			"error":   err.Error(),
		}).Debug("retrying request due to error")
		return
	}

	logrus.WithFields(logrus.Fields{
		"url":         r.Request.URL,
		"attempt":     r.Request.Attempt,
		"status_code": r.StatusCode(),
	}).Debug("retrying request due to status code")
}
