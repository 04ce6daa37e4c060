// Package server assembles the catalog daemon: configuration, logging,
// metrics, the domain components and the gin router behind a gzip handler.
package server
