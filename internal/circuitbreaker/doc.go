// Package circuitbreaker guards upstream OData services against repeated
// failures.
//
// A breaker has three states:
//
//   - CLOSED: calls pass through
//   - OPEN: the upstream is failing, calls are rejected with ErrOpen
//   - HALF-OPEN: one trial call is let through to probe for recovery
//
// Usage:
//
//	registry := circuitbreaker.NewRegistry(5, 30*time.Second)
//	cb := registry.GetBreaker("/tenant1")
//	if !cb.Allow() {
//	    return circuitbreaker.ErrOpen
//	}
//	// Call upstream...
//	if failed {
//	    cb.RecordFailure()
//	} else {
//	    cb.RecordSuccess()
//	}
package circuitbreaker
