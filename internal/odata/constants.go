package odata

const (
	HeaderContentType         = "Content-Type"
	HeaderXHTTPMethod         = "X-HTTP-Method"
	HeaderXHTTPMethodOverride = "X-HTTP-Method-Override"
	HeaderRequestID           = "X-Request-ID"
)

// ContentTypeJSON is the canonical JSON content type used for error bodies.
const ContentTypeJSON = "application/json"
