/*
Package metadata persists user-owned catalog metadata.

The record lives in a single pretty-printed JSON file in the per-user
application-support directory. It holds category assignments keyed by bundle
path, launch counts, user-defined categories and their display order, plus
presentation settings the front end stores alongside them.

Loading never fails: a missing or malformed file yields the default record.
Every load runs an idempotent migration that fills the category order and makes
sure each user category appears in it. Saves go through a temp file and rename
so a crash cannot leave a truncated record behind.

All mutations are load-mutate-save cycles serialized by the store's mutex:

	store := metadata.NewStore(paths.Data{Dir: dir}.RecordPath(), logger)
	_ = store.AddCategory("Games")
	n, _ := store.IncrementUsage("/Applications/Safari.app")
*/
package metadata
