package internal

import (
	"log/slog"
	"net/http"
	"time"
)

// clientTransport stamps the vendor user agent on every outgoing request,
// including the ones issued by the AWS SDK clients, and logs the exchange.
type clientTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func (t *clientTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", UserAgent)

	start := time.Now()
	resp, err := t.base.RoundTrip(r)
	if err != nil {
		t.logger.LogAttrs(r.Context(), slog.LevelDebug, "request failed",
			slog.String("method", r.Method),
			slog.String("host", r.URL.Host),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	t.logger.LogAttrs(r.Context(), slog.LevelDebug, "request",
		slog.String("method", r.Method),
		slog.String("host", r.URL.Host),
		slog.String("path", r.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

func wrapHTTPClient(base *http.Client, logger *slog.Logger) *http.Client {
	if base == nil {
		base = &http.Client{Timeout: defaultTimeout}
	}
	client := *base
	transport := client.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	client.Transport = &clientTransport{base: transport, logger: logger}
	return &client
}
