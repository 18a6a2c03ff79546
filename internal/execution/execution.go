// Package execution implements the data request execution step: fetch a
// price for the host-supplied feed identifier through the proxy, scale it to
// a fixed-point u128 and report the result back to the host.
package execution

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jasperdg/bsc-seedify-pm/internal/fetcher"
	"github.com/jasperdg/bsc-seedify-pm/internal/logger"
	"github.com/jasperdg/bsc-seedify-pm/internal/process"
	"github.com/sirupsen/logrus"
)

const (
	// FetchErrorMessage is reported whenever the proxy rejects the fetch,
	// regardless of status
	FetchErrorMessage = "Error while fetching price feed"

	// InvalidPriceMessage is reported for prices that have no u128 fixed-point form
	InvalidPriceMessage = "Invalid price feed value"
)

// Options configures a single execution
type Options struct {
	// BaseURL is the proxy endpoint the feed identifier is appended to
	BaseURL string

	// Logger receives diagnostics; nil uses the standard logrus logger
	Logger logrus.FieldLogger
}

// FeedURL builds the fetch URL for a feed identifier
func FeedURL(baseURL, feed string) string {
	return strings.TrimRight(baseURL, "/") + "/" + feed
}

// Execute runs the routine once against proc.
//
// A nil return means exactly one report was delivered to proc. Decoding
// failures of the input or the payload are returned without reporting
// anything. A rejected fetch is logged and reported as FetchErrorMessage.
func Execute(ctx context.Context, proc process.Process, f fetcher.Fetcher, opts Options) error {
	input := proc.Inputs()
	if !utf8.Valid(input) {
		return &DecodingError{What: "feed identifier", Cause: ErrInvalidUTF8}
	}
	feed := string(input)
	log := logger.WithFeed(opts.Logger, feed)

	url := FeedURL(opts.BaseURL, feed)
	resp, err := f.Fetch(ctx, fetcher.Request{URL: url})
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}

	if !resp.IsOK() {
		if !utf8.Valid(resp.Bytes) {
			return &DecodingError{What: "rejected response body", Cause: ErrInvalidUTF8}
		}

		fetchErr := fetcher.Classify(resp)
		log.WithFields(logrus.Fields{
			"status":     resp.Status,
			"error_type": fetchErr.Type,
			"retryable":  fetchErr.Retryable,
		}).Errorf("HTTP Response was rejected: %d - %s", resp.Status, resp.Bytes)

		return proc.Error([]byte(FetchErrorMessage))
	}

	price, err := ParsePrice(resp.Bytes)
	if err != nil {
		return err
	}
	log.Infof("Fetched price: %v", price.Value)

	scaled, err := price.Scale(ScaleFactor)
	if err != nil {
		log.WithError(err).Error("Price cannot be reported")
		return proc.Error([]byte(InvalidPriceMessage))
	}
	log.Infof("Reporting: %s", scaled)

	result, err := EncodeUint128LE(scaled)
	if err != nil {
		return err
	}
	return proc.Success(result)
}
