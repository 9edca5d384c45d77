// Package types defines the core types for the coach stream kit.
// It includes the streaming event union, the outbound request envelope,
// and the standardized client error taxonomy used across all packages.
package types
