package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"roadboard/roadmap"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "roadboard_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleTable() *roadmap.Table {
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)
	return roadmap.NewTable([]roadmap.Record{
		{
			RowNumber:  2,
			Department: "A",
			Person:     "Ana",
			Subject:    "Launch",
			Status:     "Done",
			Time:       10.5,
			StartDate:  &start,
			EndDate:    &end,
			Group:      "0;3",
			Extra:      map[string]string{"notes": "first"},
		},
		{
			RowNumber:  3,
			Department: "B",
			Person:     "Ben",
			Status:     roadmap.DefaultStatus,
		},
	}, []string{"department", "person", "subject", "status", "time", "start date", "end date", "group", "notes"}, nil)
}

func TestSQLiteStore_SaveAndReadSnapshot(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	saved, err := store.SaveSnapshot("data.xlsx", sampleTable())
	if err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if saved.ID <= 0 || saved.RecordCount != 2 {
		t.Fatalf("unexpected snapshot: %+v", saved)
	}

	latest, found, err := store.LatestSnapshot()
	if err != nil || !found {
		t.Fatalf("latest snapshot: found=%v err=%v", found, err)
	}
	if latest.ID != saved.ID || latest.Source != "data.xlsx" || len(latest.Headers) != 9 {
		t.Fatalf("unexpected latest snapshot: %+v", latest)
	}

	records, err := store.SnapshotRecords(saved.ID)
	if err != nil {
		t.Fatalf("snapshot records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	first := records[0]
	if first.Person != "Ana" || first.Time != 10.5 || first.Group != "0;3" || first.Extra["notes"] != "first" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.StartDate == nil || first.StartDate.Day() != 1 || first.EndDate == nil || first.EndDate.Day() != 15 {
		t.Fatalf("unexpected dates: %v %v", first.StartDate, first.EndDate)
	}
	if records[1].StartDate != nil || records[1].EndDate != nil {
		t.Fatalf("expected null dates to round trip as nil")
	}
}

func TestSQLiteStore_LatestSnapshotEmpty(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	_, found, err := store.LatestSnapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatalf("expected no snapshot in an empty store")
	}
}

func TestSQLiteStore_ListAndDeleteSnapshots(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	first, err := store.SaveSnapshot("a.xlsx", sampleTable())
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	if _, err := store.SaveSnapshot("b.xlsx", sampleTable()); err != nil {
		t.Fatalf("save second: %v", err)
	}

	snapshots, err := store.ListSnapshots()
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snapshots) != 2 || snapshots[0].Source != "b.xlsx" || snapshots[1].Source != "a.xlsx" {
		t.Fatalf("expected newest snapshot first, got %+v", snapshots)
	}

	deleted, err := store.DeleteSnapshot(first.ID)
	if err != nil || !deleted {
		t.Fatalf("delete snapshot: deleted=%v err=%v", deleted, err)
	}
	if _, err := store.GetSnapshot(first.ID); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
	records, err := store.SnapshotRecords(first.ID)
	if err != nil {
		t.Fatalf("snapshot records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected records of deleted snapshot to be removed, got %d", len(records))
	}

	deleted, err = store.DeleteSnapshot(first.ID)
	if err != nil || deleted {
		t.Fatalf("expected second delete to report false, got deleted=%v err=%v", deleted, err)
	}
}

func TestSQLiteStore_ReopenKeepsSchema(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reopen.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := store.SaveSnapshot("a.csv", sampleTable()); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	_ = store.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer reopened.Close()

	snapshots, err := reopened.ListSnapshots()
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("expected 1 snapshot after reopen, got %d", len(snapshots))
	}
}

func TestOpenSQLiteReadOnly_RejectsWrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ro.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := store.SaveSnapshot("a.csv", sampleTable()); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	_ = store.Close()

	readOnly, err := OpenSQLiteReadOnly(path)
	if err != nil {
		t.Fatalf("open read-only: %v", err)
	}
	defer readOnly.Close()

	snapshot, found, err := readOnly.LatestSnapshot()
	if err != nil || !found {
		t.Fatalf("latest snapshot: found=%v err=%v", found, err)
	}
	if snapshot.Source != "a.csv" {
		t.Fatalf("unexpected snapshot source %q", snapshot.Source)
	}
	if _, err := readOnly.SaveSnapshot("b.csv", sampleTable()); err == nil {
		t.Fatalf("expected write through read-only store to fail")
	}
}

func TestOpenSQLiteReadOnly_MissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.db")
	if _, err := OpenSQLiteReadOnly(path); err == nil {
		t.Fatalf("expected error for missing database")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no database file to be created, got %v", err)
	}
}
