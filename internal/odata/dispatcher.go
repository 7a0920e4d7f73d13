package odata

import "context"

// Dispatcher routes a Request to the processor responsible for it.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *Request) (*Response, error)
}

// DispatcherFunc adapts a plain function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, req *Request) (*Response, error)

func (f DispatcherFunc) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
