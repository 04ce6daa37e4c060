// Package client is a small HTTP client for the AppShelf catalog daemon.
//
// Requests go through resty on top of a retryablehttp transport, so a daemon
// that is still starting up or briefly failing is retried with backoff.
// Error answers become *APIError; 404 matches ErrNotFound with errors.Is.
//
//	c := client.New("http://127.0.0.1:7455")
//	apps, err := c.Catalog(ctx, client.Query{Sort: "usage"})
package client
