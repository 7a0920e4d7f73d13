package main

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/angeloszaimis/odata-adapter/config"
	"github.com/angeloszaimis/odata-adapter/internal/handler"
	"github.com/angeloszaimis/odata-adapter/internal/metrics"
	"github.com/angeloszaimis/odata-adapter/internal/odata"
)

const rateLimitWindow = time.Minute

func setupRouter(cfg *config.Config, odataHandler *handler.Handler, metricsCollector *metrics.Collector) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)

	r.Get(cfg.Metrics.Path, metricsCollector.Handler())

	base := cfg.OData.ContextPath + cfg.OData.ServletPath
	r.Group(func(r chi.Router) {
		if cfg.Server.RateLimit > 0 {
			r.Use(rateLimit(cfg.Server.RateLimit))
		}
		if base != "" {
			r.Handle(base, odataHandler)
		}
		r.Handle(base+"/*", odataHandler)
	})

	return r
}

// rateLimit rejects clients exceeding limit requests per minute with an
// OData error document.
func rateLimit(limit int) func(http.Handler) http.Handler {
	serializer := odata.NewJSONSerializer()

	return httprate.Limit(
		limit,
		rateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(odata.HeaderContentType, odata.ContentTypeJSON)
			w.Header().Set("Retry-After", strconv.Itoa(int(rateLimitWindow.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)

			body, err := serializer.Error(odata.ServerError{Message: "Too many requests."})
			if err != nil {
				return
			}
			defer body.Close()
			_, _ = io.Copy(w, body)
		}),
	)
}
