package fetcher

import "context"

// Request describes one outbound fetch through the data proxy.
// Headers and Body are optional; a nil Body issues a GET.
type Request struct {
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response is the raw outcome of a fetch. It is consumed immediately by the
// caller and never retained.
type Response struct {
	// Status is the HTTP status code, or 0 when no response was received
	Status int

	// Bytes is the response payload. For transport failures it holds the
	// error text.
	Bytes []byte
}

// IsOK reports whether the fetch was fulfilled with a 2xx status.
func (r *Response) IsOK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Fetcher is the transport collaborator used by the execution routine.
// Implementations are responsible for any retry, timeout or determinism
// policy; the routine issues exactly one Fetch per invocation.
type Fetcher interface {
	// Fetch performs the request and returns its response.
	// Rejected or failed fetches are reported as a non-OK Response; an error
	// is returned only when the request could not be attempted at all.
	Fetch(ctx context.Context, req Request) (*Response, error)
}
