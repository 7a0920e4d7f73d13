package handler

import (
	"net/http"
	"strings"
)

// transportURI is what the transport reports about a request's location.
type transportURI struct {
	// requestURL is scheme://host plus the escaped path, without the query.
	requestURL  string
	servletPath string
	contextPath string
	requestPath string
	rawQuery    string
}

type uriParts struct {
	rawRequestURI           string
	rawBaseURI              string
	rawServiceResolutionURI *string
	rawODataPath            string
	rawQueryPath            string
}

func transportURIFrom(r *http.Request, contextPath, servletPath string) transportURI {
	scheme, host := "http", r.Host
	if r.TLS != nil {
		scheme = "https"
	}
	if r.URL.IsAbs() {
		scheme, host = r.URL.Scheme, r.URL.Host
	}

	path := r.URL.EscapedPath()

	return transportURI{
		requestURL:  scheme + "://" + host + path,
		servletPath: servletPath,
		contextPath: contextPath,
		requestPath: path,
		rawQuery:    r.URL.RawQuery,
	}
}

// decomposeURI splits a request URL into base URI, service-resolution prefix
// and protocol path. With split > 0 the first split segments of the protocol
// path move into the service-resolution prefix; a split larger than the
// number of segments leaves an empty protocol path.
func decomposeURI(t transportURI, split int) uriParts {
	odataPath := candidatePath(t)

	var serviceResolution *string
	if split > 0 {
		full := odataPath
		for i := 0; i < split; i++ {
			if e := indexFrom(odataPath, '/', 1); e == -1 {
				odataPath = ""
			} else {
				odataPath = odataPath[e:]
			}
		}
		prefix := full[:len(full)-len(odataPath)]
		serviceResolution = &prefix
	}

	base := t.requestURL
	if len(odataPath) <= len(base) {
		base = base[:len(base)-len(odataPath)]
	}

	requestURI := t.requestURL
	if t.rawQuery != "" {
		requestURI += "?" + t.rawQuery
	}

	return uriParts{
		rawRequestURI:           requestURI,
		rawBaseURI:              base,
		rawServiceResolutionURI: serviceResolution,
		rawODataPath:            odataPath,
		rawQueryPath:            t.rawQuery,
	}
}

// candidatePath returns everything after the servlet path, else everything
// after the context path, else the raw request path. Prefixes are only
// searched for in the path part of the URL, never in scheme or host.
func candidatePath(t transportURI) string {
	pathStart := len(t.requestURL) - len(t.requestPath)
	if pathStart < 0 || !strings.HasSuffix(t.requestURL, t.requestPath) {
		pathStart = 0
	}

	for _, prefix := range []string{t.servletPath, t.contextPath} {
		if prefix == "" {
			continue
		}
		if i := strings.Index(t.requestURL[pathStart:], prefix); i >= 0 {
			return t.requestURL[pathStart+i+len(prefix):]
		}
	}
	return t.requestPath
}

func indexFrom(s string, c byte, from int) int {
	if from >= len(s) {
		return -1
	}
	i := strings.IndexByte(s[from:], c)
	if i == -1 {
		return -1
	}
	return i + from
}
