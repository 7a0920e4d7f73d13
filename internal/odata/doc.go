// Package odata defines the protocol-neutral request and response model that
// the transport adapter produces and consumes. It also defines the tagged
// error kinds raised while building a request, the error envelope written to
// clients, and the Dispatcher boundary that routes requests to processors.
package odata
