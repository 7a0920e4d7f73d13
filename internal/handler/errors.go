package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/angeloszaimis/odata-adapter/internal/odata"
)

const fallbackPrefix = "An unexpected exception occurred in the ODataHttpHandler during error processing with message: "

// translateError turns any failure into a complete JSON error response. It
// does not fail: if the serializer errors or panics, a hand-built body that
// carries the original message is used and the status is forced to 500.
func translateError(err error, serializer odata.Serializer) *odata.Response {
	resp := odata.NewResponse()

	switch odata.KindOf(err) {
	case odata.KindAmbiguousMethod:
		resp.StatusCode = http.StatusBadRequest
	case odata.KindMethodNotSupported:
		resp.StatusCode = http.StatusNotImplemented
	}

	body, serr := serializeError(serializer, odata.ServerError{
		Code:    codeOf(err),
		Message: messageOf(err),
	})
	if serr != nil {
		body = fallbackBody(err)
		resp.StatusCode = http.StatusInternalServerError
	}

	resp.Body = body
	resp.SetHeader(odata.HeaderContentType, odata.ContentTypeJSON)
	return resp
}

func serializeError(serializer odata.Serializer, e odata.ServerError) (body io.ReadCloser, err error) {
	defer func() {
		if r := recover(); r != nil {
			body, err = nil, fmt.Errorf("serializer panicked: %v", r)
		}
	}()

	if serializer == nil {
		return nil, errors.New("no serializer configured")
	}
	body, err = serializer.Error(e)
	if err == nil && body == nil {
		err = errors.New("serializer returned no body")
	}
	return body, err
}

func messageOf(err error) string {
	if err == nil {
		return ""
	}
	var t odata.Translator
	if errors.As(err, &t) {
		return t.TranslatedMessage()
	}
	return err.Error()
}

func codeOf(err error) string {
	var oe *odata.Error
	if errors.As(err, &oe) {
		return oe.Code
	}
	return ""
}

func fallbackBody(err error) io.ReadCloser {
	message := ""
	if err != nil {
		message = err.Error()
	}

	var b strings.Builder
	b.WriteString(`{"error":{"code":null,"message":"`)
	b.WriteString(fallbackPrefix)
	writeJSONEscaped(&b, message)
	b.WriteString(`"}}`)
	return io.NopCloser(strings.NewReader(b.String()))
}

const hexDigits = "0123456789abcdef"

// writeJSONEscaped writes s as the inside of a JSON string literal.
func writeJSONEscaped(b *strings.Builder, s string) {
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20:
			b.WriteString(`\u00`)
			b.WriteByte(hexDigits[r>>4])
			b.WriteByte(hexDigits[r&0xf])
		default:
			b.WriteRune(r)
		}
	}
}
