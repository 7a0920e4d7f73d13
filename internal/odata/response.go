package odata

import (
	"io"
	"net/http"
)

// Response is the transport-independent result of processing a Request. The
// transport layer owns Body once the response is handed back and closes it.
type Response struct {
	StatusCode int
	Header     map[string]string
	Body       io.ReadCloser
}

// NewResponse returns a response with status 500 and no headers, matching
// what a processor that never sets a status would produce.
func NewResponse() *Response {
	return &Response{
		StatusCode: http.StatusInternalServerError,
		Header:     make(map[string]string),
	}
}

// SetHeader stores a single header value, replacing any previous value.
func (r *Response) SetHeader(name, value string) {
	if r.Header == nil {
		r.Header = make(map[string]string)
	}
	r.Header[name] = value
}
