package invitepdf

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestTouchedFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data map[string]any
		want []string
	}{
		{
			name: "mixed meaningful and empty values",
			data: map[string]any{
				"brideName": "Ana",
				"enabled":   false,
				"count":     0,
				"note":      "",
			},
			want: []string{"brideName", "count", "enabled"},
		},
		{
			name: "false and zero are touched",
			data: map[string]any{"a": false, "b": 0.0},
			want: []string{"a", "b"},
		},
		{
			name: "nil value excluded",
			data: map[string]any{"a": nil, "b": "x"},
			want: []string{"b"},
		},
		{
			name: "nested structures excluded",
			data: map[string]any{"a": map[string]any{"x": 1}, "b": []any{1}},
			want: []string{},
		},
		{
			name: "json number included",
			data: map[string]any{"a": json.Number("0")},
			want: []string{"a"},
		},
		{
			name: "empty map",
			data: map[string]any{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := touchedFields(tt.data)
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestStorageKeyFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "slug from path",
			url:  "https://invites.example.com/ana-and-luis",
			want: storageKeyPrefix + "ana-and-luis",
		},
		{
			name: "trailing slash ignored",
			url:  "https://invites.example.com/ana-and-luis/",
			want: storageKeyPrefix + "ana-and-luis",
		},
		{
			name: "deep path uses last segment",
			url:  "https://invites.example.com/w/2026/ana-and-luis",
			want: storageKeyPrefix + "ana-and-luis",
		},
		{
			name: "query ignored",
			url:  "https://invites.example.com/ana-and-luis?pdf_capture=1",
			want: storageKeyPrefix + "ana-and-luis",
		},
		{
			name: "no path falls back to default",
			url:  "https://invites.example.com",
			want: storageKeyPrefix + "default",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := storageKeyFor(tt.url); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
