package metadata

import "slices"

// Built-in category names
const (
	CategoryAll          = "All"
	CategoryFrequent     = "Frequent"
	CategoryScripts      = "Scripts"
	CategoryDevelopment  = "Development"
	CategorySocial       = "Social"
	CategoryDesign       = "Design"
	CategoryProductivity = "Productivity"
	CategoryUserApps     = "User Apps"
	CategorySystem       = "System"
)

// Presentation defaults
const (
	DefaultShortcut          = "Alt+Space"
	DefaultTheme             = "Midnight"
	DefaultWallpaperBlur     = 10.0
	DefaultWallpaperOverlay  = 0.4
	DefaultWallpaperFit      = "cover"
	DefaultWallpaperPosition = "center"
)

// BuiltinOrder returns the default category display order.
func BuiltinOrder() []string {
	return []string{
		CategoryAll,
		CategoryFrequent,
		CategoryScripts,
		CategoryDevelopment,
		CategorySocial,
		CategoryDesign,
		CategoryProductivity,
		CategoryUserApps,
		CategorySystem,
	}
}

// IsBuiltin reports whether name is one of the built-in categories.
func IsBuiltin(name string) bool {
	return slices.Contains(BuiltinOrder(), name)
}

// Script is a user-defined shell command shown beside applications.
type Script struct {
	Name    string  `json:"name"`
	Command string  `json:"command"`
	Cwd     *string `json:"cwd,omitempty"`
}

// Record is the persisted user metadata.
type Record struct {
	Categories     map[string]string `json:"categories"`
	UsageCounts    map[string]uint32 `json:"usage_counts"`
	UserCategories []string          `json:"user_categories"`
	CategoryOrder  []string          `json:"category_order"`

	Shortcut          string   `json:"shortcut"`
	Scripts           []Script `json:"scripts"`
	Theme             string   `json:"theme"`
	Wallpaper         *string  `json:"wallpaper"`
	WallpaperBlur     float32  `json:"wallpaper_blur"`
	WallpaperOverlay  float32  `json:"wallpaper_overlay"`
	WallpaperFit      string   `json:"wallpaper_fit"`
	WallpaperPosition string   `json:"wallpaper_position"`
}

// Default returns the record used when nothing valid is persisted.
func Default() *Record {
	return &Record{
		Categories:        map[string]string{},
		UsageCounts:       map[string]uint32{},
		UserCategories:    []string{},
		CategoryOrder:     BuiltinOrder(),
		Shortcut:          DefaultShortcut,
		Scripts:           []Script{},
		Theme:             DefaultTheme,
		WallpaperBlur:     DefaultWallpaperBlur,
		WallpaperOverlay:  DefaultWallpaperOverlay,
		WallpaperFit:      DefaultWallpaperFit,
		WallpaperPosition: DefaultWallpaperPosition,
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	c.Categories = make(map[string]string, len(r.Categories))
	for k, v := range r.Categories {
		c.Categories[k] = v
	}
	c.UsageCounts = make(map[string]uint32, len(r.UsageCounts))
	for k, v := range r.UsageCounts {
		c.UsageCounts[k] = v
	}
	c.UserCategories = slices.Clone(r.UserCategories)
	c.CategoryOrder = slices.Clone(r.CategoryOrder)
	c.Scripts = make([]Script, len(r.Scripts))
	for i, s := range r.Scripts {
		c.Scripts[i] = s
		if s.Cwd != nil {
			cwd := *s.Cwd
			c.Scripts[i].Cwd = &cwd
		}
	}
	if r.Wallpaper != nil {
		w := *r.Wallpaper
		c.Wallpaper = &w
	}
	return &c
}

// Category returns the user-assigned category of a path, if any.
func (r *Record) Category(path string) (string, bool) {
	c, ok := r.Categories[path]
	return c, ok
}

// Usage returns the launch count of a path; unknown paths count zero.
func (r *Record) Usage(path string) uint32 {
	return r.UsageCounts[path]
}

// HasUserCategory reports whether name is a user category.
func (r *Record) HasUserCategory(name string) bool {
	return slices.Contains(r.UserCategories, name)
}

// Migrate brings a parsed record up to the current shape. It is idempotent
// and reports whether anything changed.
func (r *Record) Migrate() bool {
	changed := false

	if r.Categories == nil {
		r.Categories = map[string]string{}
		changed = true
	}
	if r.UsageCounts == nil {
		r.UsageCounts = map[string]uint32{}
		changed = true
	}
	if r.UserCategories == nil {
		r.UserCategories = []string{}
		changed = true
	}
	if r.Scripts == nil {
		r.Scripts = []Script{}
		changed = true
	}

	if len(r.CategoryOrder) == 0 {
		r.CategoryOrder = BuiltinOrder()
		changed = true
	}
	for _, c := range r.UserCategories {
		if !slices.Contains(r.CategoryOrder, c) {
			r.CategoryOrder = append(r.CategoryOrder, c)
			changed = true
		}
	}

	return changed
}
