package main

import (
	"reflect"
	"testing"
)

func TestRewriteSnapshotArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"outline"},
			want: []string{"outline"},
		},
		{
			name: "snapshot file first token",
			in:   []string{"outline", "notes.json"},
			want: []string{"outline", "browse", "--snapshot", "notes.json"},
		},
		{
			name: "sqlite file after value flag",
			in:   []string{"outline", "--view", "view-a", "notes.sqlite"},
			want: []string{"outline", "--view", "view-a", "browse", "--snapshot", "notes.sqlite"},
		},
		{
			name: "snapshot file after equals flag",
			in:   []string{"outline", "--view=view-a", "notes.json"},
			want: []string{"outline", "--view=view-a", "browse", "--snapshot", "notes.json"},
		},
		{
			name: "snapshot file after bool flag",
			in:   []string{"outline", "-v", "notes.db", "--read-only"},
			want: []string{"outline", "-v", "browse", "--snapshot", "notes.db", "--read-only"},
		},
		{
			name: "snapshot file after double dash",
			in:   []string{"outline", "--", "notes.json"},
			want: []string{"outline", "browse", "--snapshot", "notes.json"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"outline", "tree", "--snapshot", "notes.json"},
			want: []string{"outline", "tree", "--snapshot", "notes.json"},
		},
		{
			name: "snapshot flag value not rewritten",
			in:   []string{"outline", "--snapshot", "notes.json", "tree"},
			want: []string{"outline", "--snapshot", "notes.json", "tree"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"outline", "wat"},
			want: []string{"outline", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteSnapshotArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteSnapshotArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
