package blaze

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

// ═══════════════════════════════════════════════════════════════════════════════
// WRITE LOG TESTS (§4.6, §7)
// ═══════════════════════════════════════════════════════════════════════════════

func TestWriteLog_AppendAndReplayRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "current.wal")
	wal, err := OpenWriteLog(path, CompressionNone)
	if err != nil {
		t.Fatalf("OpenWriteLog: %v", err)
	}
	defer wal.Close()

	add := walAddRecord{DocID: "01A", Text: "quick brown fox", Length: 3, Postings: map[string][]int{"quick": {0}, "brown": {1}, "fox": {2}}}
	if err := wal.AppendAdd(add); err != nil {
		t.Fatalf("AppendAdd: %v", err)
	}
	if err := wal.AppendDelete(walDeleteRecord{DocID: "01A"}); err != nil {
		t.Fatalf("AppendDelete: %v", err)
	}

	var gotAdds []walAddRecord
	var gotDeletes []walDeleteRecord
	err = wal.Replay(func(a walAddRecord, d *walDeleteRecord) {
		if d != nil {
			gotDeletes = append(gotDeletes, *d)
		} else {
			gotAdds = append(gotAdds, a)
		}
	})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(gotAdds) != 1 || !reflect.DeepEqual(gotAdds[0], add) {
		t.Errorf("replayed add = %+v, want %+v", gotAdds, add)
	}
	if len(gotDeletes) != 1 || gotDeletes[0].DocID != "01A" {
		t.Errorf("replayed deletes = %+v, want one for 01A", gotDeletes)
	}
}

func TestWriteLog_SnappyRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "current.wal")
	wal, err := OpenWriteLog(path, CompressionSnappy)
	if err != nil {
		t.Fatalf("OpenWriteLog: %v", err)
	}
	defer wal.Close()

	add := walAddRecord{DocID: "01A", Text: "compressed text", Length: 2, Postings: map[string][]int{"compress": {0}, "text": {1}}}
	if err := wal.AppendAdd(add); err != nil {
		t.Fatalf("AppendAdd: %v", err)
	}
	var got walAddRecord
	err = wal.Replay(func(a walAddRecord, d *walDeleteRecord) { got = a })
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if !reflect.DeepEqual(got, add) {
		t.Errorf("replayed = %+v, want %+v", got, add)
	}
}

func TestWriteLog_TruncateEmptiesLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "current.wal")
	wal, err := OpenWriteLog(path, CompressionNone)
	if err != nil {
		t.Fatalf("OpenWriteLog: %v", err)
	}
	defer wal.Close()

	if err := wal.AppendAdd(walAddRecord{DocID: "01A"}); err != nil {
		t.Fatalf("AppendAdd: %v", err)
	}
	if err := wal.Truncate(); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	count := 0
	err = wal.Replay(func(walAddRecord, *walDeleteRecord) { count++ })
	if err != nil {
		t.Fatalf("Replay after truncate: %v", err)
	}
	if count != 0 {
		t.Errorf("replayed %d records after Truncate, want 0", count)
	}
}

func TestWriteLog_UnknownTagFailsReplay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "current.wal")
	wal, err := OpenWriteLog(path, CompressionNone)
	if err != nil {
		t.Fatalf("OpenWriteLog: %v", err)
	}
	if err := wal.appendRecord(99, []byte("garbage")); err != nil {
		t.Fatalf("appendRecord: %v", err)
	}
	wal.Close()

	wal2, err := OpenWriteLog(path, CompressionNone)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer wal2.Close()
	err = wal2.Replay(func(walAddRecord, *walDeleteRecord) {})
	if !errors.Is(err, ErrUnknownLogOperation) {
		t.Fatalf("Replay with an unknown tag = %v, want ErrUnknownLogOperation", err)
	}
}
