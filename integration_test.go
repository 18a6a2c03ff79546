package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jasperdg/bsc-seedify-pm/internal/execution"
)

// newProxyServer serves canned prices under /proxy/{feed}
func newProxyServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)

		switch r.URL.Path {
		case "/proxy/bitcoin":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`65432.1`))
		case "/proxy/ethereum":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`3100.25`))
		case "/proxy/doge":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`rate limited`))
		case "/proxy/garbage":
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`abc`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	t.Setenv("PRICEFEED_PROXY_BASE_URL", server.URL+"/proxy")
	t.Setenv("PRICEFEED_PROXY_RETRY_COUNT", "0")
	t.Setenv("PRICEFEED_PROXY_RATE_LIMIT", "0")

	return server
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"pricefeed"}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// TestIntegration_Execute_Success runs the full routine against a mock proxy
func TestIntegration_Execute_Success(t *testing.T) {
	var calls int32
	newProxyServer(t, &calls)

	code, stdout, stderr := runCLI(t, "", "execute", "--input", "bitcoin")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr: %s)", code, stderr)
	}

	// 65432100000 as 16 little-endian bytes
	want := "a09c0e3c0f0000000000000000000000\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("proxy called %d times, want 1", got)
	}
	if !strings.Contains(stderr, "Fetched price: 65432.1") || !strings.Contains(stderr, "Reporting: 65432100000") {
		t.Errorf("stderr missing diagnostics: %s", stderr)
	}
}

func TestIntegration_Execute_Stdin(t *testing.T) {
	var calls int32
	newProxyServer(t, &calls)

	code, stdout, _ := runCLI(t, "ethereum\n", "execute")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	// 3100250000 = 0xb8_ca_0f_90
	if stdout != "900fcab8000000000000000000000000\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestIntegration_Execute_RawEncoding(t *testing.T) {
	var calls int32
	newProxyServer(t, &calls)

	code, stdout, _ := runCLI(t, "", "execute", "--input", "bitcoin", "--encoding", "raw")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if len(stdout) != execution.Uint128Size {
		t.Errorf("stdout length = %d, want %d", len(stdout), execution.Uint128Size)
	}
}

func TestIntegration_Execute_FetchRejected(t *testing.T) {
	var calls int32
	newProxyServer(t, &calls)

	code, stdout, stderr := runCLI(t, "", "execute", "--input", "doge")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if stdout != "Error while fetching price feed\n" {
		t.Errorf("stdout = %q, want fixed error message", stdout)
	}
	if !strings.Contains(stderr, "HTTP Response was rejected: 500 - rate limited") {
		t.Errorf("stderr missing rejection diagnostic: %s", stderr)
	}
}

func TestIntegration_Execute_InvalidPayload(t *testing.T) {
	var calls int32
	newProxyServer(t, &calls)

	code, stdout, stderr := runCLI(t, "", "execute", "--input", "garbage")
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want no report", stdout)
	}
	if !strings.Contains(stderr, "execution failed") {
		t.Errorf("stderr = %q, want execution failure", stderr)
	}
}

func TestIntegration_Execute_InvalidUTF8(t *testing.T) {
	var calls int32
	newProxyServer(t, &calls)

	code, stdout, _ := runCLI(t, "", "execute", "--input-hex", "fffe")
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want no report", stdout)
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("proxy called %d times, want 0", got)
	}
}

func TestIntegration_Batch(t *testing.T) {
	var calls int32
	newProxyServer(t, &calls)

	code, stdout, _ := runCLI(t, "", "batch", "bitcoin", "ethereum", "doge")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	want := "bitcoin: 65432100000\nethereum: 3100250000\ndoge: ERROR - Error while fetching price feed\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("proxy called %d times, want 3", got)
	}
}

func TestIntegration_Batch_NoFeeds(t *testing.T) {
	var calls int32
	newProxyServer(t, &calls)

	code, _, stderr := runCLI(t, "", "batch")
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr, "no feeds configured") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestIntegration_InvalidConfig(t *testing.T) {
	t.Setenv("PRICEFEED_OUTPUT_ENCODING", "base64")

	code, _, stderr := runCLI(t, "", "execute", "--input", "bitcoin")
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr, "output.encoding") {
		t.Errorf("stderr = %q", stderr)
	}
}
