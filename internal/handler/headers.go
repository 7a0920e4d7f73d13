package handler

import (
	"net/http"
	"sort"

	"github.com/angeloszaimis/odata-adapter/internal/odata"
)

// extractHeaders copies every transport header, including all values of
// multi-valued headers, into an odata.Header. net/http keeps headers in a map
// and moves Host out of it, so Host is added first and the remaining names
// follow in sorted order.
func extractHeaders(r *http.Request) *odata.Header {
	header := odata.NewHeader()

	if r.Host != "" && len(r.Header.Values("Host")) == 0 {
		header.Add("Host", r.Host)
	}

	names := make([]string, 0, len(r.Header))
	for name := range r.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		header.Add(name, r.Header[name]...)
	}

	return header
}
