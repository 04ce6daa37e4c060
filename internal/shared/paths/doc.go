// Package paths provides the standard filesystem locations used by the catalog daemon.
//
// All components resolve the data directory, the persisted record, and the icon
// cache through this package so that a single override (CATALOG_DATA_DIR) moves
// every file together.
package paths
