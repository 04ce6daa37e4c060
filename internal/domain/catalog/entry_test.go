package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryJSONKeepsNullKeys(t *testing.T) {
	icon := "data:image/png;base64,AA=="
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{
			name:  "uncategorized without icon",
			entry: Entry{Name: "Notes", Path: "/Applications/Notes.app", UsageCount: 2, DateModified: 7},
			want: `{"name":"Notes","path":"/Applications/Notes.app","is_system":false,
				"category":null,"usage_count":2,"icon_data":null,"date_modified":7}`,
		},
		{
			name:  "categorized with icon",
			entry: Entry{Name: "Figma", Path: "/Applications/Figma.app", Category: "Design", IconData: &icon},
			want: `{"name":"Figma","path":"/Applications/Figma.app","is_system":false,
				"category":"Design","usage_count":0,"icon_data":"data:image/png;base64,AA==","date_modified":0}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.entry)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			var back Entry
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.entry, back)
		})
	}
}
