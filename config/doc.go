// Package config loads the adapter configuration from YAML files and
// environment variables. It covers the listen address, the OData path
// layout (split, context and servlet paths), upstream services, circuit
// breaker tuning, metrics and logging.
package config
