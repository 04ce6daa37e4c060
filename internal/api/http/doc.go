// Package http exposes the catalog commands as REST routes.
//
// Every handler decodes its input into a typed command and runs it through
// the shared dispatcher, so REST, /invoke and the stream behave the same.
// Errors are answered as {"error": "..."} with 404 for vanished paths and
// 400 for invalid input.
package http
