// Package tracing attaches request IDs to HTTP requests and commands.
//
// Every request gets a trace ID (taken from X-Request-ID or generated) that is
// echoed in the response and stored in the request context. Commands start
// child spans under it. Spans are written to the structured log; there is no
// external exporter.
package tracing
