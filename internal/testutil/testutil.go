package testutil

import (
	"context"
	"sync"

	"github.com/jasperdg/bsc-seedify-pm/internal/fetcher"
)

// MockFetcher is a mock implementation of the Fetcher interface for testing.
// It records every request it receives.
type MockFetcher struct {
	FetchFunc func(ctx context.Context, req fetcher.Request) (*fetcher.Response, error)

	mu       sync.Mutex
	requests []fetcher.Request
}

// Fetch implements the Fetcher interface
func (m *MockFetcher) Fetch(ctx context.Context, req fetcher.Request) (*fetcher.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, req)
	}
	return &fetcher.Response{Status: 200}, nil
}

// Requests returns the requests received so far
func (m *MockFetcher) Requests() []fetcher.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]fetcher.Request(nil), m.requests...)
}

// NewMockFetcher creates a mock fetcher that always answers with status and body
func NewMockFetcher(status int, body string) *MockFetcher {
	return &MockFetcher{
		FetchFunc: func(ctx context.Context, req fetcher.Request) (*fetcher.Response, error) {
			return &fetcher.Response{Status: status, Bytes: []byte(body)}, nil
		},
	}
}

// NewFeedFetcher creates a mock fetcher answering per request URL. Unknown
// URLs get a 404.
func NewFeedFetcher(responses map[string]fetcher.Response) *MockFetcher {
	return &MockFetcher{
		FetchFunc: func(ctx context.Context, req fetcher.Request) (*fetcher.Response, error) {
			resp, ok := responses[req.URL]
			if !ok {
				return &fetcher.Response{Status: 404, Bytes: []byte("unknown feed")}, nil
			}
			return &resp, nil
		},
	}
}
