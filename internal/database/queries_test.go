package database

import (
	"context"
	"testing"
)

func seedFolder(t *testing.T, d *Database) {
	t.Helper()
	ctx := context.Background()

	// Insertion order matters: it is the documented tie-break for equal
	// sort values.
	inserts := []struct {
		path     string
		name     string
		duration float64
		created  int64
	}{
		{"clips/bravo.mp4", "bravo", 30, 300},
		{"clips/alpha.mp4", "alpha", 10, 100},
		{"clips/charlie.mp4", "charlie", 20, 200},
	}
	for _, in := range inserts {
		rec := successRecord(in.path, in.duration, 1000)
		rec.Folder = "clips"
		rec.Name = in.name
		created := in.created
		rec.CreatedAt = &created
		if err := d.UpsertSuccess(ctx, rec); err != nil {
			t.Fatalf("seed %s: %v", in.path, err)
		}
	}

	// One failed record in the same folder: NULL duration and createdAt.
	if err := d.UpsertFailure(ctx, "clips/dud.mp4", "clips", "dud", 1000); err != nil {
		t.Fatalf("seed failure record: %v", err)
	}
}

func names(records []VideoRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestListByFolderSorting(t *testing.T) {
	t.Parallel()

	d := openTestDB(t)
	seedFolder(t, d)
	ctx := context.Background()

	tests := []struct {
		name   string
		sortBy SortField
		order  SortOrder
		want   []string
	}{
		{
			name:   "by name ascending",
			sortBy: SortByName,
			order:  SortAsc,
			want:   []string{"alpha", "bravo", "charlie", "dud"},
		},
		{
			name:   "by name descending",
			sortBy: SortByName,
			order:  SortDesc,
			want:   []string{"dud", "charlie", "bravo", "alpha"},
		},
		{
			// SQLite sorts NULLs first in ASC order, so the failed
			// record leads.
			name:   "by duration ascending",
			sortBy: SortByDuration,
			order:  SortAsc,
			want:   []string{"dud", "alpha", "charlie", "bravo"},
		},
		{
			name:   "by created descending",
			sortBy: SortByCreated,
			order:  SortDesc,
			want:   []string{"bravo", "charlie", "alpha", "dud"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.ListByFolder(ctx, "clips", tt.sortBy, tt.order)
			if err != nil {
				t.Fatalf("ListByFolder() error: %v", err)
			}
			gotNames := names(got)
			if len(gotNames) != len(tt.want) {
				t.Fatalf("got %d records %v, want %d", len(gotNames), gotNames, len(tt.want))
			}
			for i := range tt.want {
				if gotNames[i] != tt.want[i] {
					t.Errorf("position %d: got %q, want %q (full order %v)", i, gotNames[i], tt.want[i], gotNames)
				}
			}
		})
	}
}

func TestListByFolderTieBreakIsInsertionOrder(t *testing.T) {
	t.Parallel()

	d := openTestDB(t)
	ctx := context.Background()

	// Three records with the same duration; rowid (insertion) order is the
	// tie-break. This ordering is documented, not load-bearing.
	for _, name := range []string{"first", "second", "third"} {
		rec := successRecord("ties/"+name+".mp4", 60, 1000)
		rec.Folder = "ties"
		rec.Name = name
		if err := d.UpsertSuccess(ctx, rec); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	got, err := d.ListByFolder(ctx, "ties", SortByDuration, SortAsc)
	if err != nil {
		t.Fatalf("ListByFolder() error: %v", err)
	}

	want := []string{"first", "second", "third"}
	gotNames := names(got)
	for i := range want {
		if gotNames[i] != want[i] {
			t.Fatalf("tie-break order = %v, want %v", gotNames, want)
		}
	}
}

func TestListByFolderScopesToFolder(t *testing.T) {
	t.Parallel()

	d := openTestDB(t)
	seedFolder(t, d)
	ctx := context.Background()

	other := successRecord("elsewhere/zulu.mp4", 99, 1000)
	other.Folder = "elsewhere"
	other.Name = "zulu"
	if err := d.UpsertSuccess(ctx, other); err != nil {
		t.Fatalf("seed other folder: %v", err)
	}

	got, err := d.ListByFolder(ctx, "clips", SortByName, SortAsc)
	if err != nil {
		t.Fatalf("ListByFolder() error: %v", err)
	}
	for _, rec := range got {
		if rec.Folder != "clips" {
			t.Errorf("record %q leaked from folder %q", rec.Path, rec.Folder)
		}
	}

	empty, err := d.ListByFolder(ctx, "missing", SortByName, SortAsc)
	if err != nil {
		t.Fatalf("ListByFolder() on missing folder error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d records for missing folder, want 0", len(empty))
	}
}

func TestListAllAndCount(t *testing.T) {
	t.Parallel()

	d := openTestDB(t)
	seedFolder(t, d)
	ctx := context.Background()

	all, err := d.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("ListAll() returned %d records, want 4", len(all))
	}

	n, err := d.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 4 {
		t.Errorf("Count() = %d, want 4", n)
	}
}
