package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Application name used for the per-user support directory.
const AppName = "AppShelf"

// Files and directories beneath the data directory
const (
	RecordFile = "config.json"
	IconsDir   = "icons"
)

// Bundle layout
const (
	// BundleExt is the extension every application bundle carries
	BundleExt = ".app"

	// NestedMarker appears in any path that lives inside another bundle
	NestedMarker = ".app/Contents/"

	// InfoPlist is the metadata file relative to a bundle root
	InfoPlist = "Contents/Info.plist"

	// Resources holds bundle assets such as icon files
	Resources = "Contents/Resources"
)

// DefaultRoots are the directories scanned for applications.
func DefaultRoots() []string {
	return []string{"/Applications", "/System/Applications", "~/Applications"}
}

// DefaultSystemRoots are the prefixes that mark an application as system-provided.
func DefaultSystemRoots() []string {
	return []string{"/System/Applications", "/Applications/Utilities"}
}

// DefaultDataDir returns the per-user application-support directory.
func DefaultDataDir() string {
	return filepath.Join("~", "Library", "Application Support", AppName)
}

// Data returns paths beneath a data directory
type Data struct {
	Dir string
}

// RecordPath returns the persisted metadata record path
func (d Data) RecordPath() string {
	return filepath.Join(d.Dir, RecordFile)
}

// IconsPath returns the icon cache directory
func (d Data) IconsPath() string {
	return filepath.Join(d.Dir, IconsDir)
}

// Expand replaces a leading "~" with the given home directory.
func Expand(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// ExpandAll expands every path in the list.
func ExpandAll(list []string, home string) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, Expand(p, home))
	}
	return out
}

// Home returns the current user's home directory.
func Home() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return home, nil
}

// InfoPlistPath returns the Info.plist path of a bundle.
func InfoPlistPath(bundle string) string {
	return filepath.Join(bundle, InfoPlist)
}

// IsNested reports whether path lives inside another bundle's contents.
func IsNested(path string) bool {
	return strings.Contains(path, NestedMarker)
}

// IsBundle reports whether path carries the bundle extension.
func IsBundle(path string) bool {
	return filepath.Ext(path) == BundleExt
}

// BundleName returns the display name of a bundle: its base name without extension.
func BundleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// HasAnyPrefix reports whether path starts with one of the prefixes.
func HasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Exists reports whether a path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
