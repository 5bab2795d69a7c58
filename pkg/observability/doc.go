// Package observability exposes Prometheus metrics for action dispatch and the action server.
package observability
