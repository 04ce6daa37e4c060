// Command shelfctl drives a running AppShelf daemon from the terminal.
//
// Usage:
//
//	shelfctl list [--refresh] [--search s] [--category c] [--sort name|usage|date]
//	shelfctl usage <path>
//	shelfctl categorize <path> [category]
//	shelfctl category [add|remove <name>]
//	shelfctl auto
//	shelfctl stats [--top n]
//	shelfctl config
//
// Every command accepts --addr (env SHELF_ADDR) and --json.
package main
