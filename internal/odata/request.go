package odata

import "io"

// Request is the transport-independent form of an inbound call. It is built
// once per call and is not mutated after it reaches the Dispatcher.
type Request struct {
	// Body is read at most once.
	Body   io.Reader
	Method Method
	Header *Header

	// RawRequestURI is the full request URI including the query string.
	RawRequestURI string
	// RawBaseURI + RawODataPath equals RawRequestURI without its query
	// suffix. RawBaseURI ends with RawServiceResolutionURI when splitting.
	RawBaseURI string
	// RawServiceResolutionURI is nil unless path splitting is enabled.
	RawServiceResolutionURI *string
	RawODataPath            string
	RawQueryPath            string
}

// ServiceResolutionURI returns the service-resolution prefix, or "" when
// splitting is disabled.
func (r *Request) ServiceResolutionURI() string {
	if r.RawServiceResolutionURI == nil {
		return ""
	}
	return *r.RawServiceResolutionURI
}
