// Command server runs the AppShelf catalog daemon.
//
// Configuration comes from the environment (see internal/infrastructure/config)
// and these flags, which take precedence:
//
//	-port      listen port (PORT, default 7455)
//	-host      listen address (HOST, default 127.0.0.1)
//	-dev       development logging (LOG_DEV)
//	-data-dir  metadata and icon cache directory (CATALOG_DATA_DIR)
package main
