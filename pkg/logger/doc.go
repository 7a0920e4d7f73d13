// Package logger builds the application's structured logger. Production
// environments log JSON, everything else logs human-readable text.
package logger
