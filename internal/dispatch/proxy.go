package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/angeloszaimis/odata-adapter/internal/circuitbreaker"
	"github.com/angeloszaimis/odata-adapter/internal/odata"
)

// ErrUpstream is returned when the upstream service could not be reached or
// did not answer.
var ErrUpstream = errors.New("upstream request failed")

// Headers that describe a single hop and are never forwarded.
var hopHeaders = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"proxy-connection":    true,
	"te":                  true,
	"trailer":             true,
	"transfer-encoding":   true,
	"upgrade":             true,
	"host":                true,
	"content-length":      true,
}

// Proxy forwards requests to an upstream OData service root. The method is
// already resolved, so override headers are not forwarded.
type Proxy struct {
	name     string
	upstream *url.URL
	client   *http.Client
	breaker  *circuitbreaker.CircuitBreaker
	logger   *slog.Logger
}

func NewProxy(name, upstream string, timeout time.Duration, breaker *circuitbreaker.CircuitBreaker, logger *slog.Logger) (*Proxy, error) {
	u, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("parse upstream %q: %w", upstream, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("upstream %q must use http or https", upstream)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("upstream %q has no host", upstream)
	}
	if breaker == nil {
		return nil, errors.New("proxy requires a circuit breaker")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Proxy{
		name:     name,
		upstream: u,
		client:   &http.Client{Timeout: timeout},
		breaker:  breaker,
		logger:   logger,
	}, nil
}

func (p *Proxy) Process(ctx context.Context, req *odata.Request) (*odata.Response, error) {
	if !p.breaker.Allow() {
		return nil, fmt.Errorf("service %q: %w", p.name, circuitbreaker.ErrOpen)
	}

	out, err := p.outboundRequest(ctx, req)
	if err != nil {
		p.breaker.Release()
		return nil, err
	}

	res, err := p.client.Do(out)
	if err != nil {
		return nil, p.forwardError(ctx, err)
	}
	if res.StatusCode >= http.StatusInternalServerError {
		p.breaker.RecordFailure()
	} else {
		p.breaker.RecordSuccess()
	}

	resp := &odata.Response{
		StatusCode: res.StatusCode,
		Header:     make(map[string]string, len(res.Header)),
		Body:       res.Body,
	}
	for name, values := range res.Header {
		if hopHeaders[strings.ToLower(name)] || len(values) == 0 {
			continue
		}
		resp.SetHeader(name, strings.Join(values, ", "))
	}
	return resp, nil
}

// forwardError classifies a failed round trip. Only upstream faults count
// against the breaker; the returned error never names the upstream address.
func (p *Proxy) forwardError(ctx context.Context, err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		p.breaker.Release()
		p.logger.Info("Request body exceeds limit",
			slog.String("service", p.name),
			slog.Int64("limit", tooLarge.Limit))
		return odata.NewIOError(tooLarge)
	case ctx.Err() != nil:
		p.breaker.Release()
		p.logger.Info("Request cancelled before upstream answered",
			slog.String("service", p.name),
			slog.Any("err", ctx.Err()))
		return fmt.Errorf("forward to service %q: %w", p.name, ctx.Err())
	}

	p.breaker.RecordFailure()
	p.logger.Warn("Upstream request failed",
		slog.String("service", p.name),
		slog.String("upstream", p.upstream.String()),
		slog.Any("err", err))
	return fmt.Errorf("forward to service %q: %w", p.name, ErrUpstream)
}

func (p *Proxy) outboundRequest(ctx context.Context, req *odata.Request) (*http.Request, error) {
	target := strings.TrimSuffix(p.upstream.String(), "/") + req.RawODataPath
	if req.RawQueryPath != "" {
		target += "?" + req.RawQueryPath
	}

	out, err := http.NewRequestWithContext(ctx, req.Method.String(), target, req.Body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}

	for _, name := range req.Header.Names() {
		lower := strings.ToLower(name)
		if hopHeaders[lower] ||
			strings.EqualFold(name, odata.HeaderXHTTPMethod) ||
			strings.EqualFold(name, odata.HeaderXHTTPMethodOverride) {
			continue
		}
		for _, v := range req.Header.Values(name) {
			out.Header.Add(name, v)
		}
	}

	if cl, ok := req.Header.Get("Content-Length"); ok {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil && n >= 0 {
			out.ContentLength = n
		}
	}
	if host, ok := req.Header.Get("Host"); ok {
		out.Header.Set("X-Forwarded-Host", host)
	}
	return out, nil
}
