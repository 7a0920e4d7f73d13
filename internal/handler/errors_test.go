package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/odata-adapter/internal/odata"
)

type failingSerializer struct{}

func (failingSerializer) Error(odata.ServerError) (io.ReadCloser, error) {
	return nil, errors.New("serializer down")
}

type panickingSerializer struct{}

func (panickingSerializer) Error(odata.ServerError) (io.ReadCloser, error) {
	panic("encoder exploded")
}

type nilBodySerializer struct{}

func (nilBodySerializer) Error(odata.ServerError) (io.ReadCloser, error) {
	return nil, nil
}

func readBody(resp *odata.Response) string {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	return string(data)
}

var _ = Describe("translateError", func() {
	serializer := odata.NewJSONSerializer()

	DescribeTable("status codes",
		func(err error, status int) {
			resp := translateError(err, serializer)
			Expect(resp.StatusCode).To(Equal(status))
			Expect(resp.Header).To(HaveKeyWithValue("Content-Type", "application/json"))
			Expect(resp.Body).NotTo(BeNil())
		},
		Entry("ambiguous method", odata.NewAmbiguousMethodError("PUT", "PATCH"), http.StatusBadRequest),
		Entry("unsupported method", odata.NewMethodNotSupportedError("BREW"), http.StatusNotImplemented),
		Entry("wrapped unsupported method", fmt.Errorf("x: %w", odata.NewMethodNotSupportedError("BREW")), http.StatusNotImplemented),
		Entry("io failure", odata.NewIOError(io.ErrUnexpectedEOF), http.StatusInternalServerError),
		Entry("unclassified", errors.New("boom"), http.StatusInternalServerError),
	)

	It("should prefer the translated message", func() {
		resp := translateError(odata.NewMethodNotSupportedError("BREW"), serializer)
		Expect(readBody(resp)).To(MatchJSON(`{"error":{"code":null,"message":"Invalid HTTP method given: 'BREW'."}}`))
	})

	It("should use the plain message of foreign errors", func() {
		resp := translateError(errors.New("database unavailable"), serializer)
		Expect(readBody(resp)).To(MatchJSON(`{"error":{"code":null,"message":"database unavailable"}}`))
	})

	It("should carry an error code when the failure has one", func() {
		resp := translateError(&odata.Error{Message: "quota", Code: "Q1"}, serializer)
		Expect(readBody(resp)).To(MatchJSON(`{"error":{"code":"Q1","message":"quota"}}`))
	})

	Context("when serialization fails", func() {
		It("should emit the fallback literal with status 500", func() {
			resp := translateError(odata.NewAmbiguousMethodError("PUT", "PATCH"), failingSerializer{})

			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(resp.Header).To(HaveKeyWithValue("Content-Type", "application/json"))
			Expect(readBody(resp)).To(MatchJSON(
				`{"error":{"code":null,"message":"` + fallbackPrefix + `Ambiguous X-HTTP-Methods"}}`))
		})

		It("should survive a panicking serializer", func() {
			var resp *odata.Response
			Expect(func() { resp = translateError(errors.New("boom"), panickingSerializer{}) }).NotTo(Panic())
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(readBody(resp)).To(ContainSubstring("boom"))
		})

		It("should treat a missing body as a failure", func() {
			resp := translateError(errors.New("boom"), nilBodySerializer{})
			Expect(readBody(resp)).To(HavePrefix(`{"error":{"code":null`))
		})

		It("should survive a missing serializer", func() {
			resp := translateError(errors.New("boom"), nil)
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
		})

		It("should keep the fallback valid JSON for hostile messages", func() {
			msg := "quote \" backslash \\ newline \n tab \t bell \a unicode é"
			resp := translateError(errors.New(msg), failingSerializer{})

			var doc struct {
				Error struct {
					Code    *string `json:"code"`
					Message string  `json:"message"`
				} `json:"error"`
			}
			Expect(json.Unmarshal([]byte(readBody(resp)), &doc)).To(Succeed())
			Expect(doc.Error.Code).To(BeNil())
			Expect(doc.Error.Message).To(Equal(fallbackPrefix + msg))
		})
	})
})
