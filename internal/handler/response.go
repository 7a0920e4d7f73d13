package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/angeloszaimis/odata-adapter/internal/odata"
)

const copyChunkSize = 1024

// streamError is a read or write failure while copying the body. Anything
// else materialize reports happened after the body was fully written.
type streamError struct {
	op  string
	err error
}

func (e *streamError) Error() string {
	return e.op + " response body: " + e.err.Error()
}

func (e *streamError) Unwrap() error {
	return e.err
}

func isStreamFailure(err error) bool {
	var se *streamError
	return errors.As(err, &se)
}

// materialize writes resp onto w. The body is streamed in bounded chunks and
// closed on every path. An error means the status line was already sent.
func materialize(w http.ResponseWriter, resp *odata.Response) (err error) {
	header := w.Header()
	for name, value := range resp.Header {
		header.Set(name, value)
	}
	w.WriteHeader(resp.StatusCode)

	if resp.Body == nil {
		return nil
	}

	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close response body: %w", cerr))
		}
	}()

	buf := make([]byte, copyChunkSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return &streamError{op: "write", err: werr}
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return &streamError{op: "read", err: rerr}
		}
	}
}
