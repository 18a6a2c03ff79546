package fetcher

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status    int
		wantType  ErrorType
		retryable bool
	}{
		{429, ErrorTypeRateLimit, true},
		{500, ErrorTypeServer, true},
		{503, ErrorTypeServer, true},
		{400, ErrorTypeClient, false},
		{404, ErrorTypeClient, false},
		{408, ErrorTypeClient, true},
		{302, ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := ClassifyHTTPError(tt.status)
			if err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", err.Type, tt.wantType)
			}
			if err.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", err.Retryable, tt.retryable)
			}
			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
		})
	}
}

func TestFetchError_Error(t *testing.T) {
	if got, want := ClassifyHTTPError(500).Error(), "server error (status 500): server returned an error"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got, want := NewNetworkError(errors.New("refused")).Error(), "network error: network request failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestClassifyTransportError(t *testing.T) {
	wrapped := fmt.Errorf("dial: %w", context.DeadlineExceeded)
	if got := ClassifyTransportError(wrapped); got.Type != ErrorTypeTimeout {
		t.Errorf("Type = %q, want %q", got.Type, ErrorTypeTimeout)
	}
	if !errors.Is(ClassifyTransportError(wrapped), context.DeadlineExceeded) {
		t.Error("errors.Is(DeadlineExceeded) = false, want true")
	}

	if got := ClassifyTransportError(errors.New("connection refused")); got.Type != ErrorTypeNetwork {
		t.Errorf("Type = %q, want %q", got.Type, ErrorTypeNetwork)
	}
}

func TestClassify(t *testing.T) {
	if got := Classify(&Response{Status: 0, Bytes: []byte("no route")}); got.Type != ErrorTypeNetwork {
		t.Errorf("Type = %q, want %q", got.Type, ErrorTypeNetwork)
	}
	if got := Classify(&Response{Status: 429}); got.Type != ErrorTypeRateLimit {
		t.Errorf("Type = %q, want %q", got.Type, ErrorTypeRateLimit)
	}
}
