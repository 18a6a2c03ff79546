package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jasperdg/bsc-seedify-pm/internal/ratelimit"
	"resty.dev/v3"
)

// ProxyFetcher performs fetches through the HTTP data proxy
type ProxyFetcher struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
}

// NewProxyFetcher creates a proxy fetcher. A nil limiter disables pacing.
func NewProxyFetcher(opts ClientOptions, limiter *ratelimit.Limiter) *ProxyFetcher {
	if limiter == nil {
		limiter = ratelimit.Unlimited()
	}

	return &ProxyFetcher{
		client:  NewHTTPClient(opts),
		limiter: limiter,
	}
}

// Close releases idle connections held by the underlying client
func (f *ProxyFetcher) Close() error {
	return f.client.Close()
}

// Fetch issues the request. Transport failures are folded into a Response
// with status 0 whose body carries the failure text, as is a URL that does
// not parse. Only a canceled context is returned as an error.
func (f *ProxyFetcher) Fetch(ctx context.Context, req Request) (*Response, error) {
	u, err := url.Parse(req.URL)
	if err != nil || u.Host == "" {
		return &Response{
			Status: 0,
			Bytes:  []byte(fmt.Sprintf("%s: invalid fetch URL %q", ErrorTypeNetwork, req.URL)),
		}, nil
	}

	if err := f.limiter.Wait(ctx, u.Host); err != nil {
		return nil, fmt.Errorf("rate limiter wait for %s: %w", u.Host, err)
	}

	r := f.client.R().
		SetContext(ctx).
		SetHeaders(req.Headers)

	method := http.MethodGet
	if req.Body != nil {
		method = http.MethodPost
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(method, req.URL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", req.URL, ctxErr)
		}
		return &Response{
			Status: 0,
			Bytes:  []byte(fmt.Sprintf("%s: %v", ClassifyTransportError(err), err)),
		}, nil
	}

	return &Response{
		Status: resp.StatusCode(),
		Bytes:  resp.Bytes(),
	}, nil
}
