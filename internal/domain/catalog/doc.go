/*
Package catalog keeps the in-memory application catalog.

The Cache merges discovered bundles with user metadata (category and usage
count) and serves two kinds of refresh:

  - soft: drop entries whose path has vanished and re-apply metadata. The
    system is not queried, so the result is always a subset of the previous
    snapshot.
  - hard: run the discovery probe again and rebuild the snapshot.

The first request on an empty cache is always a hard refresh. Filter and
Summarize derive display views and usage statistics from a snapshot.
*/
package catalog
