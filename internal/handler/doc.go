// Package handler adapts net/http requests to the protocol-neutral model in
// package odata and writes odata responses back onto the transport.
//
// A Handler converts every inbound call into an odata.Request, hands it to a
// Dispatcher and materializes whatever comes back. Failures raised while
// building the request or dispatching it are translated into a JSON error
// body with a matching status code, so a caller of ServeHTTP always receives
// a complete response. The only exception is an I/O failure while streaming
// the body after the status line has been committed.
package handler
