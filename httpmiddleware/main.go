package httpmiddleware

import (
	"context"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var client = &http.Client{
	Transport: otelhttp.NewTransport(http.DefaultTransport),
}

type HttpRequestStruct struct {
	Method  string
	Url     string
	Body    io.Reader
	Headers map[string]string
}

// HttpRequest issues one outbound HTTP call on the instrumented shared
// client. Deadlines and cancellation come from ctx. A non-nil error means
// the call never produced an HTTP response; status classification of
// non-2xx responses is the caller's job.
func HttpRequest(ctx context.Context, args HttpRequestStruct) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, args.Method, args.Url, args.Body)
	if err != nil {
		return nil, 0, err
	}
	for key, value := range args.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}
