// Package middleware provides the gin middleware stack of the catalog daemon.
//
//   - CORS: cross-origin access for the launcher UI
//   - RateLimit: per-IP token buckets, forgotten when idle
//   - GlobalRateLimit: one token bucket for the whole process
//   - Logger: one zap line per request
//   - Recovery: panics become 500 responses
//   - BodyLimit: oversized request bodies become 413 responses
//
// Example Usage:
//
//	router.Use(middleware.Recovery(logger), middleware.Logger(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
