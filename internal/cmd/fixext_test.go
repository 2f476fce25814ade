package cmd

import (
	"testing"

	"github.com/Digital-Shane/trailer-tidy/internal/trailer"
	"github.com/google/go-cmp/cmp"
)

func TestRenderFixextReport(t *testing.T) {
	renames := []trailer.Rename{
		{
			From: "/media/movies/Heat (1995)/Heat (1995) - trailer #1 -trailer.webm",
			To:   "/media/movies/Heat (1995)/Heat (1995) - trailer #1 -trailer.mp4",
		},
		{
			From: "/media/movies/The Matrix (1999)/The Matrix (1999) - trailer #1 -trailer.mkv",
			To:   "/media/movies/The Matrix (1999)/The Matrix (1999) - trailer #1 -trailer.mp4",
		},
	}

	tests := []struct {
		name    string
		renames []trailer.Rename
		dryRun  bool
		want    string
	}{
		{
			name: "nothing_to_rename",
			want: "No trailers found missing .mp4 extension\n",
		},
		{
			name:    "dry_run",
			renames: renames,
			dryRun:  true,
			want: "Found 2 trailer(s) to rename\n" +
				"[DRY-RUN] Would rename: /media/movies/Heat (1995)/Heat (1995) - trailer #1 -trailer.webm -> Heat (1995) - trailer #1 -trailer.mp4\n" +
				"[DRY-RUN] Would rename: /media/movies/The Matrix (1999)/The Matrix (1999) - trailer #1 -trailer.mkv -> The Matrix (1999) - trailer #1 -trailer.mp4\n" +
				"[DRY-RUN] Would rename 2 file(s)\n" +
				"Run without --dry-run to apply changes\n",
		},
		{
			name:    "applied",
			renames: renames,
			want: "Found 2 trailer(s) to rename\n" +
				"Renamed: /media/movies/Heat (1995)/Heat (1995) - trailer #1 -trailer.webm -> Heat (1995) - trailer #1 -trailer.mp4\n" +
				"Renamed: /media/movies/The Matrix (1999)/The Matrix (1999) - trailer #1 -trailer.mkv -> The Matrix (1999) - trailer #1 -trailer.mp4\n" +
				"Successfully renamed 2 file(s)\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := renderFixextReport(tc.renames, tc.dryRun)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("renderFixextReport() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
