package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ghchoi48/homeroom/internal/counseling"
	"github.com/ghchoi48/homeroom/internal/counseling/storage"
)

func sampleRecord(date string) counseling.Record {
	return counseling.Record{
		CounselDate: date,
		Target:      counseling.TargetStudent,
		Method:      counseling.MethodInPerson,
		Category:    counseling.CategoryAcademic,
		Content:     "session note",
	}
}

func TestAddRecordUnknownStudentInsertsNothing(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	err := store.AddRecord(ctx, "없는학생", sampleRecord("2024-03-15 14:30"))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	var count int
	if err := store.DB().QueryRow("SELECT COUNT(*) FROM counseling_records").Scan(&count); err != nil {
		t.Fatalf("count records: %v", err)
	}
	if count != 0 {
		t.Fatalf("records inserted for unknown student: %d", count)
	}
}

func TestListRecordsMostRecentFirst(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	mustAddStudent(t, store, counseling.Student{Name: "김철수"})
	for _, date := range []string{"2024-01-01 09:00", "2024-03-01 09:00", "2024-02-01 09:00"} {
		if err := store.AddRecord(ctx, "김철수", sampleRecord(date)); err != nil {
			t.Fatalf("add record %s: %v", date, err)
		}
	}

	records, err := store.ListRecords(ctx, "김철수")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	want := []string{"2024-03-01 09:00", "2024-02-01 09:00", "2024-01-01 09:00"}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i := range want {
		if records[i].CounselDate != want[i] {
			t.Fatalf("records[%d].CounselDate = %q, want %q", i, records[i].CounselDate, want[i])
		}
	}
}

func TestDeleteStudentCascadesToRecords(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	mustAddStudent(t, store, counseling.Student{Name: "김철수"})
	mustAddStudent(t, store, counseling.Student{Name: "이영희"})
	if err := store.AddRecord(ctx, "김철수", sampleRecord("2024-03-15 14:30")); err != nil {
		t.Fatalf("add record: %v", err)
	}
	if err := store.AddRecord(ctx, "이영희", sampleRecord("2024-03-16 10:00")); err != nil {
		t.Fatalf("add record: %v", err)
	}

	if err := store.DeleteStudent(ctx, "김철수"); err != nil {
		t.Fatalf("delete student: %v", err)
	}

	var orphans int
	err := store.DB().QueryRow(`
SELECT COUNT(*) FROM counseling_records cr
LEFT JOIN students s ON cr.student_id = s.id
WHERE s.id IS NULL`).Scan(&orphans)
	if err != nil {
		t.Fatalf("count orphans: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("cascade left %d orphan records", orphans)
	}

	remaining, err := store.ListRecords(ctx, "이영희")
	if err != nil {
		t.Fatalf("list surviving records: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("unrelated records affected: %d", len(remaining))
	}
}

func TestRecordRoundTripAndUpdate(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	mustAddStudent(t, store, counseling.Student{Name: "김철수"})
	if err := store.AddRecord(ctx, "김철수", sampleRecord("2024-03-15 14:30")); err != nil {
		t.Fatalf("add record: %v", err)
	}

	records, err := store.ListRecords(ctx, "김철수")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	id := records[0].ID

	update := sampleRecord("2024-04-01 11:00")
	update.Category = counseling.CategoryCareer
	update.Content = "college applications"
	if err := store.UpdateRecord(ctx, id, update); err != nil {
		t.Fatalf("update record: %v", err)
	}

	got, err := store.GetRecord(ctx, id)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if got.CounselDate != "2024-04-01 11:00" || got.Category != counseling.CategoryCareer || got.Content != "college applications" {
		t.Fatalf("unexpected record after update: %+v", got)
	}
	if got.StudentID != records[0].StudentID {
		t.Fatal("update must not change record ownership")
	}

	if err := store.DeleteRecord(ctx, id); err != nil {
		t.Fatalf("delete record: %v", err)
	}
	if _, err := store.GetRecord(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := store.DeleteRecord(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found on double delete, got %v", err)
	}
}

func TestListJoinedRecordsInRangeInclusive(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	mustAddStudent(t, store, counseling.Student{Name: "김철수"})
	for _, date := range []string{"2024-02-29 09:00", "2024-03-01 09:00", "2024-03-31 23:00", "2024-04-01 08:00"} {
		if err := store.AddRecord(ctx, "김철수", sampleRecord(date)); err != nil {
			t.Fatalf("add record %s: %v", date, err)
		}
	}

	joined, err := store.ListJoinedRecordsInRange(ctx, "2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("list in range: %v", err)
	}
	if len(joined) != 2 {
		t.Fatalf("got %d records in range, want 2", len(joined))
	}
	if joined[0].Record.CounselDate != "2024-03-01 09:00" || joined[1].Record.CounselDate != "2024-03-31 23:00" {
		t.Fatalf("unexpected range contents: %+v", joined)
	}
}

// TestOpenUpgradesLegacySchema opens a database laid out like the release
// that predates the category column and verifies the additive migration
// lands without disturbing existing rows.
func TestOpenUpgradesLegacySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	legacy, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open legacy db: %v", err)
	}
	legacyDDL := `
CREATE TABLE students (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    phone TEXT NOT NULL DEFAULT '',
    gender TEXT NOT NULL DEFAULT '',
    birth_date TEXT NOT NULL DEFAULT '',
    guardian_phone1 TEXT NOT NULL DEFAULT '',
    guardian_phone2 TEXT NOT NULL DEFAULT '',
    memo TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE counseling_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    student_id INTEGER NOT NULL,
    counsel_date TEXT NOT NULL,
    target TEXT NOT NULL,
    method TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (student_id) REFERENCES students (id) ON DELETE CASCADE
);
INSERT INTO students (name, created_at, updated_at) VALUES ('김철수', '2023-03-02 09:00:00', '2023-03-02 09:00:00');
INSERT INTO counseling_records (student_id, counsel_date, target, method, content, created_at)
VALUES (1, '2023-05-10 13:00', 'student', 'phone', 'old row', '2023-05-10 13:05:00');
`
	if _, err := legacy.Exec(legacyDDL); err != nil {
		t.Fatalf("prepare legacy schema: %v", err)
	}
	if err := legacy.Close(); err != nil {
		t.Fatalf("close legacy db: %v", err)
	}

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store over legacy db: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	}()

	ctx := context.Background()
	records, err := store.ListRecords(ctx, "김철수")
	if err != nil {
		t.Fatalf("list legacy records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d legacy records, want 1", len(records))
	}
	if records[0].Category != "" {
		t.Fatalf("legacy record category = %q, want empty", records[0].Category)
	}

	// New rows use the migrated column.
	if err := store.AddRecord(ctx, "김철수", sampleRecord("2024-03-15 14:30")); err != nil {
		t.Fatalf("add record after upgrade: %v", err)
	}
}
