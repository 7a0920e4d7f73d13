// Package dispatch routes odata requests to processors selected by their
// service-resolution URI, and provides a processor that forwards requests to
// an upstream OData service.
package dispatch
