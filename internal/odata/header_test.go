package odata_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/odata-adapter/internal/odata"
)

var _ = Describe("Header", func() {
	var h *odata.Header

	BeforeEach(func() {
		h = odata.NewHeader()
	})

	It("should start empty", func() {
		Expect(h.Len()).To(Equal(0))
		Expect(h.Names()).To(BeEmpty())
		Expect(h.Values("Accept")).To(BeNil())
	})

	It("should preserve value order for multi-valued headers", func() {
		h.Add("Accept", "application/json", "text/plain")
		h.Add("Accept", "*/*")

		Expect(h.Values("Accept")).To(Equal([]string{"application/json", "text/plain", "*/*"}))
	})

	It("should match names case-insensitively", func() {
		h.Add("X-HTTP-Method", "PUT")

		v, ok := h.Get("x-http-method")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("PUT"))
		Expect(h.Names()).To(Equal([]string{"X-HTTP-Method"}))
	})

	It("should enumerate names in insertion order", func() {
		h.Add("B", "1")
		h.Add("A", "2")
		h.Add("b", "3")

		Expect(h.Names()).To(Equal([]string{"B", "A"}))
		Expect(h.Values("B")).To(Equal([]string{"1", "3"}))
	})

	It("should keep duplicate values", func() {
		h.Add("Cache-Control", "no-cache", "no-cache")
		Expect(h.Values("cache-control")).To(HaveLen(2))
	})

	It("should report a present name with no values", func() {
		h.Add("X-Empty")

		v, ok := h.Get("X-Empty")
		Expect(ok).To(BeTrue())
		Expect(v).To(BeEmpty())
	})

	It("should return copies of the stored values", func() {
		h.Add("Accept", "a")
		vs := h.Values("Accept")
		vs[0] = "mutated"

		Expect(h.Values("Accept")).To(Equal([]string{"a"}))
	})

	It("should work as a zero value", func() {
		var zero odata.Header
		zero.Add("Accept", "a")
		Expect(zero.Values("ACCEPT")).To(Equal([]string{"a"}))
	})
})
