package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/angeloszaimis/odata-adapter/internal/metrics"
	"github.com/angeloszaimis/odata-adapter/internal/odata"
)

var pathPrefix = regexp.MustCompile(`^/\S*$`)

// Options is fixed at construction and shared by all calls.
type Options struct {
	// Split is the number of leading path segments that form the
	// service-resolution prefix. Zero disables splitting.
	Split       int
	ContextPath string
	ServletPath string
	// MaxBodyBytes limits request bodies. Zero means unlimited.
	MaxBodyBytes int64
}

func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Split, validation.Min(0)),
		validation.Field(&o.ContextPath, validation.Match(pathPrefix)),
		validation.Field(&o.ServletPath, validation.Match(pathPrefix)),
		validation.Field(&o.MaxBodyBytes, validation.Min(int64(0))),
	)
}

type Handler struct {
	logger           *slog.Logger
	dispatcher       odata.Dispatcher
	serializer       odata.Serializer
	metricsCollector *metrics.Collector
	opts             Options
}

// Option customizes a Handler.
type Option func(*Handler)

// WithSerializer replaces the serializer used for error bodies.
func WithSerializer(s odata.Serializer) Option {
	return func(h *Handler) { h.serializer = s }
}

// WithMetrics sends request events to c.
func WithMetrics(c *metrics.Collector) Option {
	return func(h *Handler) { h.metricsCollector = c }
}

func New(logger *slog.Logger, dispatcher odata.Dispatcher, opts Options, options ...Option) (*Handler, error) {
	if dispatcher == nil {
		return nil, errors.New("handler: dispatcher is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("handler: invalid options: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	h := &Handler{
		logger:     logger,
		dispatcher: dispatcher,
		serializer: odata.NewJSONSerializer(),
		opts:       opts,
	}
	for _, o := range options {
		o(h)
	}
	return h, nil
}

// ServeHTTP processes one call. If the response body cannot be streamed after
// the status line was written, the connection is aborted.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Process(w, r); err != nil {
		h.logger.Error("Failed to write response",
			slog.String("path", r.URL.Path),
			slog.Any("err", err))
		panic(http.ErrAbortHandler)
	}
}

// Process builds the odata request, dispatches it and writes the outcome to
// w. Build and dispatch failures become error responses; the returned error
// only reports a failure to read or write the response body. A body that was
// fully written but failed to close is logged, not returned.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) error {
	start := time.Now()
	requestID := requestIDFrom(r)

	out := h.handle(w, r)
	resp := out.resp
	if out.err != nil {
		kind := odata.KindOf(out.err)
		h.logger.Warn("Request failed",
			slog.String("request_id", requestID),
			slog.String("kind", kind.String()),
			slog.Any("err", out.err))
		h.metricsCollector.Emit(metrics.MetricEvent{
			Type:   metrics.EventRequestFailed,
			Method: out.method,
			Kind:   kind.String(),
		})
		resp = translateError(out.err, h.serializer)
	}

	w.Header().Set(odata.HeaderRequestID, requestID)
	werr := materialize(w, resp)
	if werr != nil && !isStreamFailure(werr) {
		h.logger.Warn("Failed to close response body",
			slog.String("request_id", requestID),
			slog.Any("err", werr))
		werr = nil
	}

	duration := time.Since(start)
	h.metricsCollector.Emit(metrics.MetricEvent{
		Type:       metrics.EventResponseCompleted,
		Method:     out.method,
		Duration:   duration,
		StatusCode: resp.StatusCode,
	})
	h.logger.Info("Handled request",
		slog.String("request_id", requestID),
		slog.String("method", r.Method),
		slog.String("effective_method", out.method),
		slog.String("path", r.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration))

	return werr
}

// outcome holds exactly one of resp or err. method is the effective method
// when the request was built, else the transport method.
type outcome struct {
	method string
	resp   *odata.Response
	err    error
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) outcome {
	h.metricsCollector.Emit(metrics.MetricEvent{
		Type:   metrics.EventRequestReceived,
		Method: r.Method,
	})

	req, err := buildRequest(w, r, h.opts)
	if err != nil {
		return outcome{method: r.Method, err: err}
	}
	method := req.Method.String()

	resp, err := h.dispatch(r.Context(), req)
	switch {
	case err != nil:
		return outcome{method: method, err: err}
	case resp == nil:
		return outcome{method: method, err: errors.New("dispatcher returned no response")}
	case resp.StatusCode < 100 || resp.StatusCode > 999:
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
		return outcome{method: method, err: fmt.Errorf("dispatcher returned invalid status code %d", resp.StatusCode)}
	}
	return outcome{method: method, resp: resp}
}

func (h *Handler) dispatch(ctx context.Context, req *odata.Request) (resp *odata.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			resp, err = nil, fmt.Errorf("dispatcher panicked: %v", p)
		}
	}()
	return h.dispatcher.Dispatch(ctx, req)
}

func requestIDFrom(r *http.Request) string {
	if id := r.Header.Get(odata.HeaderRequestID); id != "" && len(id) <= 128 {
		return id
	}
	return uuid.NewString()
}
