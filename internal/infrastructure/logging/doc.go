// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// When a rotation file is configured, every entry is also written as JSON to a
// size-rotated file managed by lumberjack.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "7455"))
//	catalogLog := logger.Component("catalog")
package logging
