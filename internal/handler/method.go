package handler

import (
	"strings"

	"github.com/angeloszaimis/odata-adapter/internal/odata"
)

// resolveMethod returns the effective method of a call. Override headers
// only apply to POST; when both are present they must agree ignoring case.
func resolveMethod(transportMethod string, header *odata.Header) (odata.Method, error) {
	method, ok := odata.ParseMethod(transportMethod)
	if !ok {
		return "", odata.NewMethodNotSupportedError(transportMethod)
	}

	if method != odata.MethodPost {
		return method, nil
	}

	xHTTPMethod, hasMethod := header.Get(odata.HeaderXHTTPMethod)
	xHTTPMethodOverride, hasOverride := header.Get(odata.HeaderXHTTPMethodOverride)

	var token string
	switch {
	case !hasMethod && !hasOverride:
		return method, nil
	case !hasMethod:
		token = xHTTPMethodOverride
	case !hasOverride:
		token = xHTTPMethod
	default:
		if !strings.EqualFold(xHTTPMethod, xHTTPMethodOverride) {
			return "", odata.NewAmbiguousMethodError(xHTTPMethod, xHTTPMethodOverride)
		}
		token = xHTTPMethod
	}

	override, ok := odata.ParseMethod(token)
	if !ok {
		return "", odata.NewMethodNotSupportedError(token)
	}
	return override, nil
}
