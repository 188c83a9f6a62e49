package loader

import (
	"context"
	"fmt"

	"roadboard/storage"
)

// SnapshotReader replays the latest snapshot stored in a roadboard SQLite
// database. Only the headers present in the archived source are emitted, so
// the reloaded table has the same column capabilities as the original. The
// database is opened read-only and never migrated.
type SnapshotReader struct{}

func (r *SnapshotReader) Read(_ context.Context, source Source) (*RawTable, error) {
	store, err := storage.OpenSQLiteReadOnly(source.Path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	snapshot, found, err := store.LatestSnapshot()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no snapshots stored in %s", source.Path)
	}

	records, err := store.SnapshotRecords(snapshot.ID)
	if err != nil {
		return nil, err
	}

	rows := make([]RawRow, 0, len(records))
	for _, record := range records {
		values := make(map[string]string, len(snapshot.Headers))
		for _, header := range snapshot.Headers {
			if header == "" {
				continue
			}
			values[header] = record.Value(header)
		}
		rows = append(rows, RawRow{RowNumber: record.RowNumber, Values: values})
	}

	return &RawTable{Headers: append([]string(nil), snapshot.Headers...), Rows: rows}, nil
}
