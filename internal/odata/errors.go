package odata

import (
	"errors"
	"fmt"
)

// Kind tags a failure raised while adapting a transport request.
type Kind int

const (
	KindUnclassified Kind = iota
	KindAmbiguousMethod
	KindMethodNotSupported
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindAmbiguousMethod:
		return "ambiguous_method"
	case KindMethodNotSupported:
		return "method_not_supported"
	case KindIO:
		return "io_failure"
	default:
		return "unclassified"
	}
}

// Error is a classified protocol failure.
type Error struct {
	Kind    Kind
	Message string
	// Translated is the user-facing English message, if one exists.
	Translated string
	// Code is an optional machine-readable error code.
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// TranslatedMessage returns the translated message, falling back to Message.
func (e *Error) TranslatedMessage() string {
	if e.Translated != "" {
		return e.Translated
	}
	return e.Message
}

// Translator is implemented by failures that carry a user-facing message.
type Translator interface {
	TranslatedMessage() string
}

// KindOf classifies err. Anything that is not an *Error is unclassified.
func KindOf(err error) Kind {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindUnclassified
}

func NewAmbiguousMethodError(xHTTPMethod, xHTTPMethodOverride string) *Error {
	return &Error{
		Kind:    KindAmbiguousMethod,
		Message: "Ambiguous X-HTTP-Methods",
		Translated: fmt.Sprintf("x-http-method header '%s' and x-http-method-override header '%s' are not the same.",
			xHTTPMethod, xHTTPMethodOverride),
	}
}

func NewMethodNotSupportedError(method string) *Error {
	return &Error{
		Kind:       KindMethodNotSupported,
		Message:    "Invalid HTTP method " + method,
		Translated: fmt.Sprintf("Invalid HTTP method given: '%s'.", method),
	}
}

func NewIOError(err error) *Error {
	return &Error{
		Kind:       KindIO,
		Message:    "An I/O exception occurred.",
		Translated: "An I/O exception occurred.",
		Err:        err,
	}
}
