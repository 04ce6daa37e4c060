// Package discovery enumerates installed application bundles.
//
// A Searcher produces raw candidate paths: SpotlightSearcher asks the system
// content index, WalkSearcher walks the roots with fastwalk. The Probe cleans
// that output: it drops paths inside another bundle's Contents, drops anything
// without the .app extension, removes duplicates and excluded paths, marks
// system applications by root prefix, reads modification times, and sorts by
// case-insensitive name. A search failure is logged and yields no bundles.
package discovery
