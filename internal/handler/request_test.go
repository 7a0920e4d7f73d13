package handler

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/odata-adapter/internal/odata"
)

var _ = Describe("buildRequest", func() {
	var w *httptest.ResponseRecorder

	BeforeEach(func() {
		w = httptest.NewRecorder()
	})

	It("should compose a complete request", func() {
		r := httptest.NewRequest(http.MethodPost, "http://svc.local/odata/v1/People?$top=5", strings.NewReader(`{"Name":"x"}`))
		r.Header.Set(odata.HeaderXHTTPMethodOverride, "PATCH")
		r.Header.Add("Accept", "application/json")

		req, err := buildRequest(w, r, Options{Split: 1, ServletPath: "/odata"})
		Expect(err).NotTo(HaveOccurred())

		Expect(req.Method).To(Equal(odata.MethodPatch))
		Expect(req.Header.Values("accept")).To(Equal([]string{"application/json"}))
		Expect(req.RawRequestURI).To(Equal("http://svc.local/odata/v1/People?$top=5"))
		Expect(req.RawBaseURI).To(Equal("http://svc.local/odata/v1"))
		Expect(req.ServiceResolutionURI()).To(Equal("/v1"))
		Expect(req.RawODataPath).To(Equal("/People"))
		Expect(req.RawQueryPath).To(Equal("$top=5"))

		data, err := io.ReadAll(req.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{"Name":"x"}`))
	})

	It("should fail with an I/O error when the body is unavailable", func() {
		r := httptest.NewRequest(http.MethodGet, "/odata/People", nil)
		r.Body = nil

		req, err := buildRequest(w, r, Options{})
		Expect(req).To(BeNil())
		Expect(odata.KindOf(err)).To(Equal(odata.KindIO))
	})

	It("should propagate method failures unchanged", func() {
		r := httptest.NewRequest(http.MethodPost, "/odata/People", nil)
		r.Header.Set(odata.HeaderXHTTPMethod, "PUT")
		r.Header.Set(odata.HeaderXHTTPMethodOverride, "DELETE")

		req, err := buildRequest(w, r, Options{})
		Expect(req).To(BeNil())
		Expect(odata.KindOf(err)).To(Equal(odata.KindAmbiguousMethod))
	})

	It("should enforce the body limit", func() {
		r := httptest.NewRequest(http.MethodPut, "/odata/People(1)", strings.NewReader(strings.Repeat("a", 64)))

		req, err := buildRequest(w, r, Options{MaxBodyBytes: 16})
		Expect(err).NotTo(HaveOccurred())

		_, err = io.ReadAll(req.Body)
		var tooLarge *http.MaxBytesError
		Expect(errors.As(err, &tooLarge)).To(BeTrue())
		Expect(tooLarge.Limit).To(Equal(int64(16)))
	})
})
