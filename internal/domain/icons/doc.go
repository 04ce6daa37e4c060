// Package icons renders application icons for display.
//
// Icons are fetched on demand and never during a catalog refresh. Rendered
// PNGs are cached under the data directory by md5 of the bundle path and
// served as base64 data URIs.
package icons
