package metrics_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/odata-adapter/internal/metrics"
)

var _ = Describe("Collector", func() {
	var (
		collector *metrics.Collector
		log       *slog.Logger
		ctx       context.Context
		cancel    context.CancelFunc
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
		ctx, cancel = context.WithCancel(context.Background())
		collector = metrics.NewCollector(100, log)
	})

	AfterEach(func() {
		cancel()
	})

	Describe("Emit", func() {
		It("should accept events while the buffer has room", func() {
			Expect(collector.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived, Method: "GET"})).To(BeTrue())
		})

		It("should drop events when the buffer is full", func() {
			c := metrics.NewCollector(1, log)
			Expect(c.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived})).To(BeTrue())
			Expect(c.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived})).To(BeFalse())
		})

		It("should be a no-op on a nil collector", func() {
			var c *metrics.Collector
			Expect(c.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived})).To(BeFalse())
		})
	})

	Describe("event processing", func() {
		It("should process EventRequestReceived", func() {
			collector.Start(ctx)
			collector.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived, Method: "PATCH"})

			Eventually(func() int64 {
				return collector.Snapshot().Methods["PATCH"]
			}).Should(Equal(int64(1)))
		})

		It("should process EventResponseCompleted", func() {
			collector.Start(ctx)
			collector.Emit(metrics.MetricEvent{
				Type:       metrics.EventResponseCompleted,
				Method:     "GET",
				Duration:   100 * time.Millisecond,
				StatusCode: 204,
			})

			Eventually(func() int64 {
				return collector.Snapshot().StatusCodes[204]
			}).Should(Equal(int64(1)))
			Expect(collector.Snapshot().AvgLatency).To(Equal(100 * time.Millisecond))
		})

		It("should process EventRequestFailed", func() {
			collector.Start(ctx)
			collector.Emit(metrics.MetricEvent{Type: metrics.EventRequestFailed, Kind: "method_not_supported"})

			Eventually(func() int64 {
				return collector.Snapshot().Failures["method_not_supported"]
			}).Should(Equal(int64(1)))
		})

		It("should drain buffered events on cancellation", func() {
			for i := 0; i < 5; i++ {
				collector.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived, Method: "GET"})
			}

			cancel()
			done := make(chan struct{})
			go func() {
				collector.Run(ctx)
				close(done)
			}()

			Eventually(done).Should(BeClosed())
			Expect(collector.Snapshot().Methods["GET"]).To(Equal(int64(5)))
		})
	})

	Describe("Handler", func() {
		It("should serve the snapshot as JSON", func() {
			collector.Start(ctx)
			collector.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived, Method: "GET"})
			Eventually(func() int64 { return collector.Snapshot().TotalRequests }).Should(Equal(int64(1)))

			w := httptest.NewRecorder()
			collector.Handler()(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("application/json"))

			var snap metrics.Snapshot
			Expect(json.Unmarshal(w.Body.Bytes(), &snap)).To(Succeed())
			Expect(snap.TotalRequests).To(Equal(int64(1)))
		})
	})
})
