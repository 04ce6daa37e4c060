package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare tilde", "~", "/Users/me"},
		{"tilde prefix", "~/Applications", "/Users/me/Applications"},
		{"absolute", "/Applications", "/Applications"},
		{"tilde in middle", "/a/~/b", "/a/~/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.in, "/Users/me"))
		})
	}
}

func TestBundleHelpers(t *testing.T) {
	assert.True(t, IsBundle("/Applications/Safari.app"))
	assert.False(t, IsBundle("/Applications/readme.txt"))
	assert.False(t, IsBundle("/Applications/Safari.app/"))

	assert.True(t, IsNested("/Applications/Xcode.app/Contents/Developer/Simulator.app"))
	assert.False(t, IsNested("/Applications/Xcode.app"))

	assert.Equal(t, "Visual Studio Code", BundleName("/Applications/Visual Studio Code.app"))
	assert.Equal(t, "/A/X.app/Contents/Info.plist", InfoPlistPath("/A/X.app"))
}

func TestHasAnyPrefix(t *testing.T) {
	roots := DefaultSystemRoots()
	assert.True(t, HasAnyPrefix("/System/Applications/Calculator.app", roots))
	assert.True(t, HasAnyPrefix("/Applications/Utilities/Terminal.app", roots))
	assert.False(t, HasAnyPrefix("/Applications/Slack.app", roots))
	assert.False(t, HasAnyPrefix("/Applications/Slack.app", []string{""}))
}

func TestDataPaths(t *testing.T) {
	d := Data{Dir: "/tmp/shelf"}
	assert.Equal(t, "/tmp/shelf/config.json", d.RecordPath())
	assert.Equal(t, "/tmp/shelf/icons", d.IconsPath())
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x")
	assert.False(t, Exists(file))
	assert.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.True(t, Exists(file))
}
