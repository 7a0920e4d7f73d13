package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/angeloszaimis/odata-adapter/internal/odata"
)

// ErrNoProcessor is returned when no processor serves a request's
// service-resolution URI.
var ErrNoProcessor = errors.New("no processor registered")

// A service prefix is empty (the default service) or a slash-led path
// without a trailing slash.
var servicePrefix = regexp.MustCompile(`^(/[^/?#]+)+$`)

// Processor handles requests for one service.
type Processor interface {
	Process(ctx context.Context, req *odata.Request) (*odata.Response, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, req *odata.Request) (*odata.Response, error)

func (f ProcessorFunc) Process(ctx context.Context, req *odata.Request) (*odata.Response, error) {
	return f(ctx, req)
}

// Registry implements odata.Dispatcher. It is safe for concurrent use,
// including registration while requests are served.
type Registry struct {
	mutex      sync.RWMutex
	processors map[string]Processor
	logger     *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		processors: make(map[string]Processor),
		logger:     logger,
	}
}

// Register binds p to a service prefix, replacing any previous binding. The
// empty prefix serves requests without a service-resolution URI.
func (r *Registry) Register(prefix string, p Processor) error {
	if err := validation.Validate(prefix, validation.Match(servicePrefix)); err != nil {
		return fmt.Errorf("invalid service prefix %q: %w", prefix, err)
	}
	if p == nil {
		return fmt.Errorf("nil processor for service prefix %q", prefix)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.processors[prefix]; exists {
		r.logger.Warn("Replacing processor", slog.String("service", prefix))
	}
	r.processors[prefix] = p
	return nil
}

func (r *Registry) Dispatch(ctx context.Context, req *odata.Request) (*odata.Response, error) {
	service := req.ServiceResolutionURI()

	r.mutex.RLock()
	p, ok := r.processors[service]
	r.mutex.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w for service %q", ErrNoProcessor, service)
	}
	return p.Process(ctx, req)
}

// Services lists the registered prefixes in sorted order.
func (r *Registry) Services() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	services := make([]string, 0, len(r.processors))
	for prefix := range r.processors {
		services = append(services, prefix)
	}
	sort.Strings(services)
	return services
}
