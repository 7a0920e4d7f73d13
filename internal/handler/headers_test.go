package handler

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("extractHeaders", func() {
	It("should recover every name with its ordered values", func() {
		r := httptest.NewRequest(http.MethodGet, "/odata/People", nil)
		submitted := map[string][]string{
			"Accept":          {"application/json", "application/xml;q=0.5"},
			"Odata-Version":   {"4.0"},
			"X-Custom":        {"b", "a", "b"},
			"Accept-Language": {"en"},
		}
		for name, values := range submitted {
			for _, v := range values {
				r.Header.Add(name, v)
			}
		}

		header := extractHeaders(r)

		for name, values := range submitted {
			Expect(header.Values(name)).To(Equal(values), name)
		}
	})

	It("should include the Host header", func() {
		r := httptest.NewRequest(http.MethodGet, "http://svc.local/odata", nil)

		header := extractHeaders(r)

		host, ok := header.Get("host")
		Expect(ok).To(BeTrue())
		Expect(host).To(Equal("svc.local"))
		Expect(header.Names()[0]).To(Equal("Host"))
	})

	It("should list the remaining names in a stable order", func() {
		r := httptest.NewRequest(http.MethodGet, "/odata", nil)
		r.Host = ""
		r.Header.Set("Zeta", "1")
		r.Header.Set("Alpha", "2")
		r.Header.Set("Mid", "3")

		Expect(extractHeaders(r).Names()).To(Equal([]string{"Alpha", "Mid", "Zeta"}))
	})
})
