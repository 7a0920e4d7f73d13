package odata_test

import (
	"errors"
	"fmt"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/odata-adapter/internal/odata"
)

var _ = Describe("Error", func() {
	Describe("KindOf", func() {
		It("should classify protocol errors", func() {
			Expect(odata.KindOf(odata.NewAmbiguousMethodError("PUT", "PATCH"))).To(Equal(odata.KindAmbiguousMethod))
			Expect(odata.KindOf(odata.NewMethodNotSupportedError("BREW"))).To(Equal(odata.KindMethodNotSupported))
			Expect(odata.KindOf(odata.NewIOError(io.ErrUnexpectedEOF))).To(Equal(odata.KindIO))
		})

		It("should see through wrapping", func() {
			err := fmt.Errorf("build request: %w", odata.NewMethodNotSupportedError("BREW"))
			Expect(odata.KindOf(err)).To(Equal(odata.KindMethodNotSupported))
		})

		It("should treat foreign errors as unclassified", func() {
			Expect(odata.KindOf(errors.New("boom"))).To(Equal(odata.KindUnclassified))
			Expect(odata.KindOf(nil)).To(Equal(odata.KindUnclassified))
		})
	})

	Describe("messages", func() {
		It("should translate the ambiguous method failure", func() {
			err := odata.NewAmbiguousMethodError("PUT", "PATCH")
			Expect(err.Error()).To(Equal("Ambiguous X-HTTP-Methods"))
			Expect(err.TranslatedMessage()).To(Equal(
				"x-http-method header 'PUT' and x-http-method-override header 'PATCH' are not the same."))
		})

		It("should translate the unsupported method failure", func() {
			err := odata.NewMethodNotSupportedError("BREW")
			Expect(err.TranslatedMessage()).To(Equal("Invalid HTTP method given: 'BREW'."))
		})

		It("should fall back to the plain message", func() {
			err := &odata.Error{Message: "plain"}
			Expect(err.TranslatedMessage()).To(Equal("plain"))
		})

		It("should unwrap the cause of an I/O failure", func() {
			err := odata.NewIOError(io.ErrUnexpectedEOF)
			Expect(errors.Is(err, io.ErrUnexpectedEOF)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("unexpected EOF"))
		})
	})

	DescribeTable("Kind names",
		func(k odata.Kind, name string) {
			Expect(k.String()).To(Equal(name))
		},
		Entry("ambiguous", odata.KindAmbiguousMethod, "ambiguous_method"),
		Entry("unsupported", odata.KindMethodNotSupported, "method_not_supported"),
		Entry("io", odata.KindIO, "io_failure"),
		Entry("unclassified", odata.KindUnclassified, "unclassified"),
	)
})
