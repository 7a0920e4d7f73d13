// Package healthcheck probes upstream OData services on an interval. A failed
// probe counts against the service's circuit breaker, so a dead upstream is
// cut off before client traffic discovers it.
package healthcheck
