package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var tracedHttpClient = &http.Client{
	Transport: otelhttp.NewTransport(http.DefaultTransport),
	Timeout:   30 * time.Second,
}

type apiResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// doRequest calls the running server with the session token (when set) and returns the full response.
func doRequest(ctx context.Context, t *testing.T, method, path, token string, body any) apiResponse {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return do(t, req)
}

func doCronRequest(ctx context.Context, t *testing.T, path, secret string) apiResponse {
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverEndpoint+path, nil)
	require.NoError(t, err)
	if secret != "" {
		req.Header.Set("X-Cron-Secret", secret)
	}

	return do(t, req)
}

func do(t *testing.T, req *http.Request) apiResponse {
	t.Helper()

	resp, err := tracedHttpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return apiResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBytes,
	}
}

func decodeBody[T any](t *testing.T, resp apiResponse) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(resp.Body, &v), string(resp.Body))
	return v
}
