package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/angeloszaimis/odata-adapter/internal/odata"
)

var errNoBody = errors.New("request body stream is not available")

// buildRequest converts r into an odata.Request. It returns either a complete
// request or an error, never a partially populated request.
func buildRequest(w http.ResponseWriter, r *http.Request, opts Options) (*odata.Request, error) {
	body, err := openBody(w, r, opts.MaxBodyBytes)
	if err != nil {
		return nil, odata.NewIOError(err)
	}

	header := extractHeaders(r)

	method, err := resolveMethod(r.Method, header)
	if err != nil {
		return nil, err
	}

	parts := decomposeURI(transportURIFrom(r, opts.ContextPath, opts.ServletPath), opts.Split)

	return &odata.Request{
		Body:                    body,
		Method:                  method,
		Header:                  header,
		RawRequestURI:           parts.rawRequestURI,
		RawBaseURI:              parts.rawBaseURI,
		RawServiceResolutionURI: parts.rawServiceResolutionURI,
		RawODataPath:            parts.rawODataPath,
		RawQueryPath:            parts.rawQueryPath,
	}, nil
}

func openBody(w http.ResponseWriter, r *http.Request, limit int64) (io.Reader, error) {
	if r.Body == nil {
		return nil, errNoBody
	}
	if limit > 0 {
		return http.MaxBytesReader(w, r.Body, limit), nil
	}
	return r.Body, nil
}
