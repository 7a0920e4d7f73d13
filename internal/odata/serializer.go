package odata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ServerError is the error envelope reported to clients.
type ServerError struct {
	Code    string
	Message string
}

type errorDocument struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    *string `json:"code"`
	Message string  `json:"message"`
}

// Serializer renders protocol documents.
type Serializer interface {
	Error(e ServerError) (io.ReadCloser, error)
}

// JSONSerializer is the default Serializer. It writes
// {"error":{"code":<code-or-null>,"message":<string>}}.
type JSONSerializer struct{}

func NewJSONSerializer() JSONSerializer {
	return JSONSerializer{}
}

func (JSONSerializer) Error(e ServerError) (io.ReadCloser, error) {
	doc := errorDocument{Error: errorBody{Message: e.Message}}
	if e.Code != "" {
		code := e.Code
		doc.Error.Code = &code
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize error document: %w", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
