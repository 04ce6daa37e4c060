// Package classify guesses categories for uncategorized applications.
//
// The only signal is the category identifier a bundle declares in its
// Info.plist (LSApplicationCategoryType). A Taxonomy maps identifiers onto
// category names by case-insensitive substring; the default rules cover the
// four built-in categories and may be replaced from a YAML or TOML file.
// Bundles that declare nothing, or something no rule matches, stay
// uncategorized. A run writes the metadata record at most once.
package classify
