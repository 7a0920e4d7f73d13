package healthcheck

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultPath is the service metadata document every OData service exposes.
const DefaultPath = "/$metadata"

// FailureRecorder receives failed probes.
type FailureRecorder interface {
	RecordFailure()
}

type Target struct {
	Service  string
	Upstream string
	Path     string
}

func (t Target) probeURL() string {
	path := t.Path
	if path == "" {
		path = DefaultPath
	}
	return strings.TrimSuffix(t.Upstream, "/") + path
}

// HealthCheck sends a GET to the target's probe URL every interval until ctx
// is cancelled. Any status other than 200 is a failure.
func HealthCheck(
	ctx context.Context,
	target Target,
	interval time.Duration,
	recorder FailureRecorder,
	logger *slog.Logger,
) {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	healthy := true
	probeURL := target.probeURL()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Health check stopped",
				slog.String("service", target.Service))
			return

		case <-ticker.C:
			ok := probe(ctx, client, probeURL)
			if ctx.Err() != nil {
				continue
			}
			if !ok {
				recorder.RecordFailure()
			}

			if ok != healthy {
				healthy = ok
				if healthy {
					logger.Info("Upstream is back up",
						slog.String("service", target.Service),
						slog.String("url", probeURL))
				} else {
					logger.Warn("Upstream is down",
						slog.String("service", target.Service),
						slog.String("url", probeURL))
				}
			}
		}
	}
}

func probe(ctx context.Context, client *http.Client, probeURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return false
	}

	res, err := client.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()

	return res.StatusCode == http.StatusOK
}
